package telegram

import (
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"fabric-inspector/internal/domain/entity"
)

func TestVerdictText(t *testing.T) {
	passed := verdictText(&entity.InspectionResult{
		RequestID:  "abc",
		Verdict:    entity.NewVerdict("Defect Free"),
		Confidence: 1,
	})
	require.Contains(t, passed, "Качество подтверждено")
	require.Contains(t, passed, "100%")
	require.NotContains(t, passed, "Тип аномалии")
	require.True(t, strings.HasSuffix(passed, "ID проверки: abc"))

	failed := verdictText(&entity.InspectionResult{
		RequestID:  "def",
		Verdict:    entity.NewVerdict("stain"),
		Confidence: 0.6,
	})
	require.Contains(t, failed, "Тип аномалии: STAIN")
	require.Contains(t, failed, "Целостность поверхности: Critical")
	require.Contains(t, failed, "Уверенность: 60%")
}

func TestImageFileID(t *testing.T) {
	id, ok := imageFileID(&tgbotapi.Message{Photo: []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "large"}}})
	require.True(t, ok)
	require.Equal(t, "large", id)

	id, ok = imageFileID(&tgbotapi.Message{Document: &tgbotapi.Document{FileID: "doc", MimeType: "image/PNG"}})
	require.True(t, ok)
	require.Equal(t, "doc", id)

	_, ok = imageFileID(&tgbotapi.Message{Document: &tgbotapi.Document{FileID: "pdf", MimeType: "application/pdf"}})
	require.False(t, ok)

	_, ok = imageFileID(&tgbotapi.Message{Text: "hello"})
	require.False(t, ok)
}
