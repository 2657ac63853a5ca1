package entity

// UserState состояние оператора в диалоге
type UserState string

const (
	StateMainMenu      UserState = "main_menu"      // В главном меню
	StateAwaitingPhoto UserState = "awaiting_photo" // Ожидание фото полотна
	StateProcessing    UserState = "processing"     // Анализ изображения
)

// User представляет оператора, который присылает снимки полотна
type User struct {
	ID          int64     `json:"id"`          // Telegram User ID
	ChatID      int64     `json:"chat_id"`     // Telegram Chat ID
	State       UserState `json:"state"`       // Текущее состояние
	Inspections int       `json:"inspections"` // Сколько проверок выполнено
	LastLabel   Label     `json:"last_label"`  // Метка последней проверки
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// RecordInspection запоминает итог очередной проверки.
func (u *User) RecordInspection(label Label) {
	u.Inspections++
	u.LastLabel = label
}
