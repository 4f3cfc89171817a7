package models

import "time"

// Song request workflow
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
)

// Comment categories
const (
	CommentGeneral = "geral"
	CommentProgram = "programa"
	CommentWorship = "louvor"
)

// Study theme difficulty levels
const (
	LevelBeginner     = "Iniciante"
	LevelIntermediate = "Intermediário"
	LevelAdvanced     = "Avançado"
)

// Admin roles
const (
	RoleAdmin = "admin"
)

// AnonymousName replaces the submitter name of anonymous prayer requests
const AnonymousName = "Anônimo"

// Recent-N defaults for the live list views
const (
	CommentsLimit     = 50
	PrayersLimit      = 20
	SongRequestsLimit = 15
	MaxListLimit      = 100
)

// Request types

type CreateCommentRequest struct {
	UserName    string `json:"user_name" validate:"required,max=80"`
	Comment     string `json:"comment" validate:"required,max=1000"`
	CommentType string `json:"comment_type" validate:"omitempty,oneof=geral programa louvor"`
}

type CreatePrayerRequest struct {
	UserName      string `json:"user_name" validate:"required_unless=IsAnonymous true,max=80"`
	PrayerRequest string `json:"prayer_request" validate:"required,max=2000"`
	IsAnonymous   bool   `json:"is_anonymous"`
}

type CreateSongRequest struct {
	UserName  string `json:"user_name" validate:"required,max=80"`
	SongTitle string `json:"song_title" validate:"required,max=200"`
	Artist    string `json:"artist" validate:"max=200"`
	Message   string `json:"message" validate:"max=500"`
}

type CastVoteRequest struct {
	Option string `json:"option" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateScheduleRequest struct {
	TimeSlot    string `json:"time_slot" validate:"required,max=40"`
	ProgramName string `json:"program_name" validate:"required,max=120"`
	Presenter   string `json:"presenter" validate:"required,max=120"`
	Description string `json:"description" validate:"max=500"`
}

type CreateSermonRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	Theme     string `json:"theme" validate:"required,max=200"`
	MainVerse string `json:"main_verse" validate:"required,max=200"`
	Content   string `json:"content"`
	Author    string `json:"author" validate:"max=120"`
}

type CreateThemeRequest struct {
	Title           string `json:"title" validate:"required,max=200"`
	Description     string `json:"description" validate:"required,max=1000"`
	BibleReferences string `json:"bible_references" validate:"required,max=500"`
	Content         string `json:"content"`
	DifficultyLevel string `json:"difficulty_level" validate:"omitempty,oneof=Iniciante Intermediário Avançado"`
}

type CreatePollRequest struct {
	Question string   `json:"question" validate:"required,max=300"`
	Options  []string `json:"options" validate:"min=2,max=10,unique,dive,required,max=120"`
	IsActive bool     `json:"is_active"`
}

type SetPublishedRequest struct {
	IsPublished *bool `json:"is_published" validate:"required"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type UpdateSongStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved completed rejected"`
}

// Response types

type VoteResponse struct {
	Option  string `json:"option"`
	Message string `json:"message"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
}

// PollState is the public view of the voting widget: no poll, unvoted, or voted
type PollState struct {
	Poll        *Poll          `json:"poll"`
	Tally       map[string]int `json:"tally"`
	Percentages map[string]int `json:"percentages"`
	Total       int            `json:"total"`
	HasVoted    bool           `json:"has_voted"`
	MyVote      string         `json:"my_vote,omitempty"`
}

type AdminOverview struct {
	Schedule     []ScheduleEntry `json:"schedule"`
	Sermons      []SermonOutline `json:"sermons"`
	Themes       []StudyTheme    `json:"themes"`
	Polls        []Poll          `json:"polls"`
	Comments     []Comment       `json:"comments"`
	Prayers      []PrayerRequest `json:"prayers"`
	SongRequests []SongRequest   `json:"song_requests"`
}

// Domain types

type ScheduleEntry struct {
	ID          string    `json:"id"`
	TimeSlot    string    `json:"time_slot"`
	ProgramName string    `json:"program_name"`
	Presenter   string    `json:"presenter"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SermonOutline struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Theme       string    `json:"theme"`
	MainVerse   string    `json:"main_verse"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html,omitempty"`
	Author      string    `json:"author"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type StudyTheme struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	BibleReferences string    `json:"bible_references"`
	Content         string    `json:"content"`
	ContentHTML     string    `json:"content_html,omitempty"`
	DifficultyLevel string    `json:"difficulty_level"`
	IsPublished     bool      `json:"is_published"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Poll struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Options   []string  `json:"options"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type Vote struct {
	ID             string    `json:"id"`
	PollID         string    `json:"poll_id"`
	SelectedOption string    `json:"selected_option"`
	UserIP         string    `json:"-"` // Never expose in JSON
	CreatedAt      time.Time `json:"created_at"`
}

type PrayerRequest struct {
	ID            string    `json:"id"`
	UserName      string    `json:"user_name"`
	PrayerRequest string    `json:"prayer_request"`
	IsAnonymous   bool      `json:"is_anonymous"`
	CreatedAt     time.Time `json:"created_at"`
}

type Comment struct {
	ID          string    `json:"id"`
	UserName    string    `json:"user_name"`
	Comment     string    `json:"comment"`
	CommentType string    `json:"comment_type"`
	CreatedAt   time.Time `json:"created_at"`
}

type SongRequest struct {
	ID        string    `json:"id"`
	UserName  string    `json:"user_name"`
	SongTitle string    `json:"song_title"`
	Artist    *string   `json:"artist"`
	Message   *string   `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AdminUser struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SongTransitionAllowed reports whether the admin workflow permits moving
// a song request from one status to another
func SongTransitionAllowed(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected
	case StatusApproved:
		return to == StatusCompleted
	}
	return false
}
