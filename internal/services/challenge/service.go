package challenge

import (
	"errors"
	"fmt"

	"github.com/ganzorig/lastplayer/internal/common/clock"
	"github.com/ganzorig/lastplayer/internal/common/uuid"
	"github.com/ganzorig/lastplayer/internal/models"
	"github.com/ganzorig/lastplayer/internal/random"
)

// Time-limit bands in seconds per difficulty
const (
	easyMinSeconds   = 30
	easyMaxSeconds   = 60
	mediumMinSeconds = 60
	mediumMaxSeconds = 120
	hardMinSeconds   = 120
	hardMaxSeconds   = 180
)

// template is a catalog entry; everything but the per-instance fields
type template struct {
	challengeType models.ChallengeType
	difficulty    models.Difficulty
	title         string
	description   string
	question      string
	options       []string
	correctAnswer string
}

// catalog holds the round questions in escalating difficulty. Rounds past
// the end wrap around to the start.
var catalog = []template{
	{
		challengeType: models.ChallengeTypeQuiz,
		difficulty:    models.DifficultyEasy,
		title:         "1-р шат: Ерөнхий мэдлэг",
		description:   "Энгийн асуултад хариулж эхний шатыг давна уу.",
		question:      "Монгол улсын нийслэл хот аль нь вэ?",
		options:       []string{"Улаанбаатар", "Дархан", "Эрдэнэт", "Чойбалсан"},
		correctAnswer: "Улаанбаатар",
	},
	{
		challengeType: models.ChallengeTypeLogic,
		difficulty:    models.DifficultyEasy,
		title:         "2-р шат: Логик сэтгэлгээ",
		description:   "Логикийн энгийн бодлого шийдэж өмнөх амжилтаа үргэлжлүүлээрэй.",
		question:      "Дараах дарааллын дараагийн тоо юу вэ? 2, 4, 8, 16, ?",
		options:       []string{"24", "32", "20", "18"},
		correctAnswer: "32",
	},
	{
		challengeType: models.ChallengeTypeSocial,
		difficulty:    models.DifficultyMedium,
		title:         "3-р шат: Нийгмийн мэдлэг",
		description:   "Нийгэм, соёлын талаарх мэдлэгээ шалгаарай.",
		question:      "Монголын уламжлалт баяр Цагаан сар хэдэн өдөр тэмдэглэгддэг вэ?",
		options:       []string{"3 өдөр", "7 өдөр", "15 өдөр", "30 өдөр"},
		correctAnswer: "15 өдөр",
	},
	{
		challengeType: models.ChallengeTypeLogic,
		difficulty:    models.DifficultyMedium,
		title:         "4-р шат: IQ тест",
		description:   "Илүү төвөгтэй логикийн бодлого шийдэх цаг боллоо.",
		question:      "Хэрэв A=1, B=2, C=3 бол HELLO гэдэг үгийн тоон утга хэд вэ?",
		options:       []string{"52", "64", "48", "56"},
		correctAnswer: "52",
	},
	{
		challengeType: models.ChallengeTypeQuiz,
		difficulty:    models.DifficultyHard,
		title:         "5-р шат: Хэцүү асуулт",
		description:   "Өндөр түвшний мэдлэг шаардагдах асуулт.",
		question:      "Дэлхийн хамгийн урт гол аль нь вэ?",
		options:       []string{"Нил гол", "Амазон гол", "Янцзы гол", "Миссисипи гол"},
		correctAnswer: "Нил гол",
	},
	{
		challengeType: models.ChallengeTypeSocial,
		difficulty:    models.DifficultyHard,
		title:         "6-р шат: Улс төрийн мэдлэг",
		description:   "Улс төр, түүхийн гүн гүнзгий мэдлэг шаардагдана.",
		question:      "Монгол улсын анхны Ерөнхийлөгч хэн байсан бэ?",
		options:       []string{"П.Очирбат", "Н.Багабанди", "Ц.Элбэгдорж", "Х.Баттулга"},
		correctAnswer: "П.Очирбат",
	},
}

// Config holds configuration for the challenge service
type Config struct {
	Generator random.Generator
	Clock     clock.Clock
	UUID      uuid.UUID
}

type service struct {
	generator random.Generator
	clock     clock.Clock
	uuid      uuid.UUID
}

// New creates a new challenge service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Generator == nil {
		return nil, errors.New("generator cannot be nil")
	}

	svc := &service{
		generator: cfg.Generator,
		clock:     cfg.Clock,
		uuid:      cfg.UUID,
	}

	if svc.clock == nil {
		svc.clock = &clock.DefaultClock{}
	}

	if svc.uuid == nil {
		svc.uuid = uuid.New()
	}

	return svc, nil
}

// GenerateForRound builds a ready-to-publish challenge for the round
func (s *service) GenerateForRound(input *GenerateForRoundInput) (*GenerateForRoundOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.Round < 1 {
		return nil, fmt.Errorf("round must be positive, got %d", input.Round)
	}

	tmpl := catalog[(input.Round-1)%len(catalog)]

	options := make([]string, len(tmpl.options))
	copy(options, tmpl.options)

	generated := &models.Challenge{
		ID:            s.uuid.NewUUID(),
		Type:          tmpl.challengeType,
		Difficulty:    tmpl.difficulty,
		Title:         tmpl.title,
		Description:   tmpl.description,
		Question:      tmpl.question,
		Options:       options,
		CorrectAnswer: tmpl.correctAnswer,
		TimeLimit:     s.timeLimit(tmpl.difficulty),
		CreatedAt:     s.clock.Now(),
	}

	return &GenerateForRoundOutput{
		Challenge: generated,
	}, nil
}

// timeLimit draws a limit in seconds from the difficulty band
func (s *service) timeLimit(difficulty models.Difficulty) int {
	switch difficulty {
	case models.DifficultyEasy:
		return s.generator.IntBetween(easyMinSeconds, easyMaxSeconds)
	case models.DifficultyMedium:
		return s.generator.IntBetween(mediumMinSeconds, mediumMaxSeconds)
	case models.DifficultyHard:
		return s.generator.IntBetween(hardMinSeconds, hardMaxSeconds)
	default:
		return s.generator.IntBetween(easyMinSeconds, easyMaxSeconds)
	}
}
