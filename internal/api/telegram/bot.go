package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fabric-inspector/internal/container"
	"fabric-inspector/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я бот для контроля качества ткани.

📸 Отправьте мне фото полотна, и я проверю его на дефекты.

📋 Команды:
/check — начать проверку полотна
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото полотна (как фото или как файл JPEG/PNG)
2️⃣ Бот проанализирует структуру поверхности
3️⃣ Вы получите вердикт и карту дефектов

💡 Рекомендации:
• Снимайте при ровном освещении
• Полотно должно занимать весь кадр
• Фото должно быть чётким

📋 Команды:
/check — начать проверку
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте фото полотна для проверки на дефекты."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото полотна для проверки на дефекты."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Анализирую структуру поверхности..."
	msgNotAnImage      = "⚠️ Поддерживаются только изображения JPEG и PNG."
	msgDecodeError     = "⚠️ Не удалось прочитать изображение. Отправьте другой файл."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте позже."
)

// downloadAttempts число попыток скачать файл из Telegram.
const downloadAttempts = 3

// Bot представляет Telegram-бота
type Bot struct {
	api       *tgbotapi.BotAPI
	container *container.Container
	http      *http.Client
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	slog.Info("authorized on telegram", "account", api.Self.UserName)

	return &Bot{
		api:       api,
		container: c,
		http:      &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if _, err := b.container.UserService.Get(ctx, msg.From.ID, msg.Chat.ID); err != nil {
		slog.Error("error getting user", "user_id", msg.From.ID, "err", err)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	fileID, ok := imageFileID(msg)
	if !ok {
		if msg.Document != nil {
			b.sendMessage(msg.Chat.ID, msgNotAnImage)
			return
		}
		b.sendMessage(msg.Chat.ID, msgSendPhoto)
		return
	}

	b.handleImage(ctx, msg, fileID)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID
	var err error

	switch msg.Command() {
	case "start":
		_, err = b.container.UserService.Cancel(ctx, userID, chatID)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "check":
		_, err = b.container.UserService.BeginCheck(ctx, userID, chatID)
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "cancel":
		_, err = b.container.UserService.Cancel(ctx, userID, chatID)
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}

	if err != nil {
		slog.Error("error saving user state", "user_id", userID, "command", msg.Command(), "err", err)
	}
}

// handleImage скачивает изображение, запускает проверку и отправляет вердикт с картой дефектов
func (b *Bot) handleImage(ctx context.Context, msg *tgbotapi.Message, fileID string) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	if _, err := b.container.UserService.BeginProcessing(ctx, userID, chatID); err != nil {
		slog.Error("error saving user state", "user_id", userID, "err", err)
	}

	var label entity.Label
	defer func() {
		if _, err := b.container.UserService.FinishCheck(ctx, userID, chatID, label); err != nil {
			slog.Error("error saving user state", "user_id", userID, "err", err)
		}
	}()

	b.sendMessage(chatID, msgProcessing)

	imageData, err := b.downloadFile(ctx, fileID)
	if err != nil {
		slog.Error("error downloading image", "user_id", userID, "err", err)
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	out, err := b.container.InspectionService.Analyze(ctx, entity.SourceTelegram, imageData)
	if err != nil {
		if errors.Is(err, entity.ErrDecode) {
			b.sendMessage(chatID, msgDecodeError)
			return
		}
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	label = out.Result.Verdict.Label
	b.sendMessage(chatID, verdictText(out.Result))

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{
		Name:  out.Result.RequestID + ".jpg",
		Bytes: out.DefectMap,
	})
	photo.Caption = "Карта дефектов"
	if _, err := b.api.Send(photo); err != nil {
		slog.Error("error sending defect map", "request_id", out.Result.RequestID, "err", err)
	}
}

// imageFileID возвращает идентификатор файла изображения: фото максимального размера или документ JPEG/PNG
func imageFileID(msg *tgbotapi.Message) (string, bool) {
	if len(msg.Photo) > 0 {
		return msg.Photo[len(msg.Photo)-1].FileID, true
	}
	if msg.Document != nil {
		switch strings.ToLower(msg.Document.MimeType) {
		case "image/jpeg", "image/png":
			return msg.Document.FileID, true
		}
	}
	return "", false
}

// verdictText формирует текст вердикта
func verdictText(result *entity.InspectionResult) string {
	v := result.Verdict
	var sb strings.Builder
	if v.Passed {
		sb.WriteString("✅ Качество подтверждено\n")
		sb.WriteString("Неровностей поверхности не обнаружено, партия готова к производству.\n")
	} else {
		sb.WriteString("🚨 Обнаружен дефект\n")
		fmt.Fprintf(&sb, "Тип аномалии: %s\n", v.AnomalyType())
		sb.WriteString("Требуется ручная проверка рулона.\n")
	}
	fmt.Fprintf(&sb, "Целостность поверхности: %s\n", v.SurfaceIntegrity())
	fmt.Fprintf(&sb, "Уверенность: %.0f%%\n", result.Confidence*100)
	fmt.Fprintf(&sb, "ID проверки: %s", result.RequestID)
	return sb.String()
}

// downloadFile скачивает файл из Telegram, повторяя запрос при сетевых ошибках
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	var data []byte
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), downloadAttempts-1), ctx)

	err := backoff.Retry(func() error {
		file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
		if err != nil {
			return fmt.Errorf("get file: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := b.http.Do(req)
		if err != nil {
			return fmt.Errorf("download file: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("download file: unexpected status %s", resp.Status)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}
		return nil
	}, policy)

	return data, err
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("error sending message", "chat_id", chatID, "err", err)
	}
}

