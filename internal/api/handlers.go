package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arlab/arlab/internal/auth"
	"github.com/arlab/arlab/internal/catalog"
	"github.com/arlab/arlab/internal/progress"
	"github.com/arlab/arlab/internal/quiz"
	"github.com/arlab/arlab/internal/store"
	"github.com/arlab/arlab/internal/tutor"
)

const maxHistory = 100

type lessonSummary struct {
	ID               string             `json:"id"`
	Subject          catalog.Subject    `json:"subject"`
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	Difficulty       catalog.Difficulty `json:"difficulty"`
	EstimatedMinutes int                `json:"estimated_minutes"`
	TotalSteps       int                `json:"total_steps"`
}

type progressResponse struct {
	LessonID       string     `json:"lesson_id"`
	CompletedSteps []int      `json:"completed_steps"`
	CurrentStep    int        `json:"current_step"`
	Percent        float64    `json:"percent"`
	QuizScore      int        `json:"quiz_score"`
	QuizAttempts   int        `json:"quiz_attempts"`
	Completed      bool       `json:"completed"`
	Bookmarked     bool       `json:"bookmarked"`
	LastAccessed   *time.Time `json:"last_accessed,omitempty"`
	TimeSpentSecs  int64      `json:"time_spent_secs"`
}

type statsResponse struct {
	Lessons      int      `json:"lessons"`
	Completed    int      `json:"completed"`
	Bookmarked   int      `json:"bookmarked"`
	AverageScore *float64 `json:"average_score"`
}

type attemptResponse struct {
	ID          string    `json:"id"`
	Score       int       `json:"score"`
	Correct     int       `json:"correct"`
	Total       int       `json:"total"`
	Passed      bool      `json:"passed"`
	Answers     []string  `json:"answers"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type quizRequest struct {
	Answers []string `json:"answers"`
}

type answerResponse struct {
	QuestionID string `json:"question_id"`
	Given      string `json:"given"`
	Correct    bool   `json:"correct"`
}

type explanationResponse struct {
	QuestionID    string `json:"question_id"`
	CorrectAnswer string `json:"correct_answer"`
	Text          string `json:"text"`
	Tip           string `json:"tip,omitempty"`
	Source        string `json:"source"`
}

type quizResponse struct {
	AttemptID      string                `json:"attempt_id"`
	Score          int                   `json:"score"`
	CorrectAnswers int                   `json:"correct_answers"`
	TotalQuestions int                   `json:"total_questions"`
	PassingScore   int                   `json:"passing_score"`
	Passed         bool                  `json:"passed"`
	Answers        []answerResponse      `json:"answers"`
	Explanations   []explanationResponse `json:"explanations,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listLessons(w http.ResponseWriter, r *http.Request) {
	lessons := s.catalog.All()
	if subj := r.URL.Query().Get("subject"); subj != "" {
		if !slices.Contains(catalog.AllSubjects(), catalog.Subject(subj)) {
			s.writeError(w, r, badRequest(fmt.Sprintf("unknown subject %q", subj)))
			return
		}
		lessons = s.catalog.BySubject(catalog.Subject(subj))
	}

	out := make([]lessonSummary, len(lessons))
	for i, l := range lessons {
		out[i] = lessonSummary{
			ID:               l.ID,
			Subject:          l.Subject,
			Title:            l.Title,
			Description:      l.Description,
			Difficulty:       l.Difficulty,
			EstimatedMinutes: l.EstimatedMinutes,
			TotalSteps:       l.TotalSteps(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// getLesson returns the full lesson with answers and explanations removed
// from the quiz.
func (s *Server) getLesson(w http.ResponseWriter, r *http.Request) {
	l, err := s.lesson(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	for i := range l.Quiz.Questions {
		l.Quiz.Questions[i].CorrectAnswer = ""
		l.Quiz.Questions[i].Explanation = ""
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) listProgress(w http.ResponseWriter, r *http.Request) {
	userID := user(r)
	var (
		records []store.Progress
		err     error
	)
	switch r.URL.Query().Get("filter") {
	case "":
		records, err = s.tracker.All(r.Context(), userID)
	case "completed":
		records, err = s.tracker.Completed(r.Context(), userID)
	case "bookmarked":
		records, err = s.tracker.Bookmarked(r.Context(), userID)
	default:
		err = badRequest("filter must be completed or bookmarked")
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]progressResponse, 0, len(records))
	for _, p := range records {
		total := 0
		if l, ok := s.catalog.Get(p.LessonID); ok {
			total = l.TotalSteps()
		}
		out = append(out, toProgress(p, total))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.tracker.Stats(r.Context(), user(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := statsResponse{Lessons: st.Lessons, Completed: st.Completed, Bookmarked: st.Bookmarked}
	if st.HasScores {
		avg := st.AverageScore
		resp.AverageScore = &avg
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getProgress(w http.ResponseWriter, r *http.Request) {
	l, err := s.lesson(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondProgress(w, r, l)
}

func (s *Server) completeStep(w http.ResponseWriter, r *http.Request) {
	l, err := s.lesson(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	step, err := strconv.Atoi(chi.URLParam(r, "step"))
	if err != nil {
		s.writeError(w, r, badRequest("step must be an integer"))
		return
	}
	if err := s.tracker.MarkStepCompleted(r.Context(), l.ID, user(r), step); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondProgress(w, r, l)
}

func (s *Server) toggleBookmark(w http.ResponseWriter, r *http.Request) {
	l, err := s.lesson(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.tracker.ToggleBookmark(r.Context(), l.ID, user(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondProgress(w, r, l)
}

func (s *Server) addTime(w http.ResponseWriter, r *http.Request) {
	l, err := s.lesson(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body struct {
		Seconds int64 `json:"seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, badRequest("invalid JSON body"))
		return
	}
	if body.Seconds <= 0 {
		s.writeError(w, r, badRequest("seconds must be positive"))
		return
	}
	if err := s.tracker.AddTimeSpent(r.Context(), l.ID, user(r), time.Duration(body.Seconds)*time.Second); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondProgress(w, r, l)
}

func (s *Server) resetProgress(w http.ResponseWriter, r *http.Request) {
	l, err := s.lesson(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.tracker.ResetProgress(r.Context(), l.ID, user(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	l, err := s.lesson(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, r, badRequest("limit must be a positive integer"))
			return
		}
		limit = min(n, maxHistory)
	}

	attempts, err := s.tracker.History(r.Context(), l.ID, user(r), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]attemptResponse, len(attempts))
	for i, a := range attempts {
		out[i] = attemptResponse{
			ID:          a.ID,
			Score:       a.Score,
			Correct:     a.Correct,
			Total:       a.Total,
			Passed:      a.Passed,
			Answers:     a.Answers,
			SubmittedAt: a.SubmittedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// submitQuiz answers the lesson quiz in order with the posted answers,
// submits it and records the result. Missing trailing answers count as
// wrong. With ?explain=true missed questions come back with explanations.
func (s *Server) submitQuiz(w http.ResponseWriter, r *http.Request) {
	l, err := s.lesson(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req quizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, badRequest("invalid JSON body"))
		return
	}

	sess := quiz.New(s.tracker, l.ID, user(r), quiz.WithClock(s.now))
	if err := sess.Start(l.Quiz); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Answers) > sess.Total() {
		s.writeError(w, r, fmt.Errorf("%d answers for %d questions: %w", len(req.Answers), sess.Total(), quiz.ErrAnswerOverflow))
		return
	}
	for i, a := range req.Answers {
		if _, err := sess.SubmitAnswer(a); err != nil {
			s.writeError(w, r, err)
			return
		}
		if i < len(req.Answers)-1 {
			if err := sess.AdvanceQuestion(); err != nil {
				s.writeError(w, r, err)
				return
			}
		}
	}

	res, err := sess.Submit(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := quizResponse{
		AttemptID:      res.AttemptID,
		Score:          res.Score,
		CorrectAnswers: res.CorrectAnswers,
		TotalQuestions: res.TotalQuestions,
		PassingScore:   res.PassingScore,
		Passed:         res.Passed,
		Answers:        make([]answerResponse, len(res.Answers)),
	}
	for i, a := range res.Answers {
		resp.Answers[i] = answerResponse{QuestionID: a.QuestionID, Given: a.Given, Correct: a.Correct}
	}

	if explain, _ := strconv.ParseBool(r.URL.Query().Get("explain")); explain && s.tutor != nil {
		missed := tutor.MissedFrom(l.Quiz, res.Answers)
		exps, err := s.tutor.Explain(r.Context(), l, missed)
		if err != nil {
			s.logger.Warn("explain answers", "lesson", l.ID, "err", err)
		}
		for _, e := range exps {
			resp.Explanations = append(resp.Explanations, explanationResponse{
				QuestionID:    e.QuestionID,
				CorrectAnswer: e.CorrectAnswer,
				Text:          e.Text,
				Tip:           e.Tip,
				Source:        string(e.Source),
			})
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) respondProgress(w http.ResponseWriter, r *http.Request, l catalog.Lesson) {
	p, err := s.tracker.Load(r.Context(), l.ID, user(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgress(p, l.TotalSteps()))
}

func (s *Server) lesson(r *http.Request) (catalog.Lesson, error) {
	id := chi.URLParam(r, "lessonID")
	l, ok := s.catalog.Get(id)
	if !ok {
		return catalog.Lesson{}, fmt.Errorf("%w: %s", errLessonNotFound, id)
	}
	return l, nil
}

// user is only called behind auth.Middleware, which guarantees an ID.
func user(r *http.Request) string {
	id, _ := auth.UserFrom(r.Context())
	return id
}

func toProgress(p store.Progress, totalSteps int) progressResponse {
	resp := progressResponse{
		LessonID:       p.LessonID,
		CompletedSteps: p.CompletedSteps,
		CurrentStep:    progress.CurrentStep(p, totalSteps),
		Percent:        progress.Percent(p, totalSteps),
		QuizScore:      p.QuizScore,
		QuizAttempts:   p.QuizAttempts,
		Completed:      p.Completed,
		Bookmarked:     p.Bookmarked,
		TimeSpentSecs:  int64(p.TimeSpent / time.Second),
	}
	if resp.CompletedSteps == nil {
		resp.CompletedSteps = []int{}
	}
	if !p.LastAccessed.IsZero() {
		t := p.LastAccessed
		resp.LastAccessed = &t
	}
	return resp
}
