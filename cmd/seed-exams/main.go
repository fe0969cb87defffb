package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/exaima/exaima-backend/internal/config"
	"github.com/exaima/exaima-backend/internal/database"
	"github.com/exaima/exaima-backend/internal/logger"
	"github.com/exaima/exaima-backend/internal/model"
	"github.com/exaima/exaima-backend/internal/repository"
)

// seedFile is the JSON layout consumed by this tool: a list of exams,
// each carrying its questions inline.
type seedFile struct {
	Exams []seedExam `json:"exams"`
}

type seedExam struct {
	ExamName     string         `json:"exam_name"`
	Description  string         `json:"description"`
	DurationMins int            `json:"duration_mins"`
	IsMCQ        bool           `json:"is_mcq"`
	Questions    []seedQuestion `json:"questions"`
}

type seedQuestion struct {
	QuestionText  string `json:"question_text"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectOption string `json:"correct_option"`
	Marks         int    `json:"marks"`
}

func main() {
	var file string
	flag.StringVar(&file, "file", "seed/exams.json", "Path to exam seed file")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	examRepo := repository.NewExamRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)

	raw, err := os.ReadFile(file)
	if err != nil {
		log.Fatal().Err(err).Str("file", file).Msg("Failed to read seed file")
	}

	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		log.Fatal().Err(err).Msg("Failed to parse seed file")
	}

	fmt.Printf("=== Seeding %d Exams ===\n", len(seed.Exams))

	for _, se := range seed.Exams {
		if se.ExamName == "" {
			log.Fatal().Msg("Seed exam with empty exam_name")
		}

		exam := &model.Exam{
			ExamName:     se.ExamName,
			Description:  se.Description,
			DurationMins: se.DurationMins,
			IsMCQ:        se.IsMCQ,
		}
		if err := examRepo.Create(ctx, exam); err != nil {
			log.Fatal().Err(err).Str("exam", se.ExamName).Msg("Failed to create exam")
		}

		for i, sq := range se.Questions {
			if !validOption(sq.CorrectOption) {
				log.Fatal().
					Str("exam", se.ExamName).
					Int("question", i+1).
					Str("correct_option", sq.CorrectOption).
					Msg("correct_option must be one of A, B, C, D")
			}

			marks := sq.Marks
			if marks <= 0 {
				marks = 1
			}

			q := &model.Question{
				ExamID:        exam.ID,
				QuestionText:  sq.QuestionText,
				OptionA:       sq.OptionA,
				OptionB:       sq.OptionB,
				OptionC:       sq.OptionC,
				OptionD:       sq.OptionD,
				CorrectOption: sq.CorrectOption,
				Marks:         marks,
			}
			if err := questionRepo.Create(ctx, q); err != nil {
				log.Fatal().Err(err).Str("exam", se.ExamName).Int("question", i+1).Msg("Failed to create question")
			}
		}

		fmt.Printf("Seeded '%s' with %d questions (ID: %s)\n", exam.ExamName, len(se.Questions), exam.ID)
	}

	fmt.Println("Done")
}

func validOption(o string) bool {
	switch o {
	case "A", "B", "C", "D":
		return true
	}
	return false
}
