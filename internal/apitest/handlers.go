package apitest

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

func (s *Server) handleRegister(c echo.Context) error {
	var in v1.RegisterInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if in.Name == "" || in.Email == "" || len(in.Password) < v1.MinPasswordLength {
		return fail(c, http.StatusBadRequest, "Name, email and a password of at least 6 characters are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(in.Email)
	for _, u := range s.users.docs {
		if u.str("email") == email {
			return fail(c, http.StatusBadRequest, "User already exists")
		}
	}
	u := s.users.insert(doc{"name": in.Name, "email": email, "password": in.Password, "role": string(v1.RoleUser)})
	return ok(c, http.StatusCreated, v1.AuthResult{Token: s.issueToken(u.id()), User: toUser(u)})
}

func (s *Server) handleLogin(c echo.Context) error {
	var in v1.LoginInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(in.Email)
	for _, u := range s.users.docs {
		if u.str("email") == email && u.str("password") == in.Password {
			return ok(c, http.StatusOK, v1.AuthResult{Token: s.issueToken(u.id()), User: toUser(u)})
		}
	}
	return fail(c, http.StatusUnauthorized, "Invalid email or password")
}

func (s *Server) handleMe(c echo.Context) error {
	return ok(c, http.StatusOK, toUser(current(c)))
}

func (s *Server) handleLogout(c echo.Context) error {
	token, _ := c.Get("token").(string)
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
	return c.JSON(http.StatusOK, envelope{Success: true, Message: "Logged out successfully"})
}

func (s *Server) handleListUsers(c echo.Context) error {
	s.mu.Lock()
	docs := s.users.newestFirst(nil)
	s.mu.Unlock()

	page, limit := pageParams(c)
	users := make([]v1.User, 0, limit)
	for _, d := range slicePage(docs, page, limit) {
		users = append(users, toUser(d))
	}
	return c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    users,
		Pagination: &pagination{
			Page:       page,
			Limit:      limit,
			TotalItems: len(docs),
			TotalPages: v1.TotalPagesFor(len(docs), limit),
		},
	})
}

func (s *Server) handleDeleteUser(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.users.remove(c.Param("id")) {
		return fail(c, http.StatusNotFound, "User not found")
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Message: "User deleted"})
}

func (s *Server) handleUpdateProfile(c echo.Context) error {
	var in v1.ProfileInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := current(c)
	for k, v := range map[string]string{
		"name":        in.Name,
		"phone":       in.Phone,
		"dateOfBirth": in.DateOfBirth,
		"gender":      in.Gender,
		"address":     in.Address,
	} {
		if v != "" {
			u[k] = v
		}
	}
	return ok(c, http.StatusOK, toUser(u))
}

func (s *Server) handleChangePassword(c echo.Context) error {
	var in v1.PasswordChange
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := current(c)
	if u.str("password") != in.CurrentPassword {
		return fail(c, http.StatusBadRequest, "Current password is incorrect")
	}
	u["password"] = in.NewPassword
	return c.JSON(http.StatusOK, envelope{Success: true, Message: "Password changed"})
}

func (s *Server) handleLatestRecord(c echo.Context) error {
	uid := current(c).id()
	s.mu.Lock()
	docs := s.data[KindRecords].newestFirst(func(d doc) bool { return d.owner() == uid })
	s.mu.Unlock()

	if len(docs) == 0 {
		return fail(c, http.StatusNotFound, "No health records found")
	}
	return ok(c, http.StatusOK, docs[0].clone())
}

func (s *Server) handleToggleReminder(c echo.Context) error {
	var body struct {
		IsActive *bool `json:"isActive"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.data[KindReminders].get(c.Param("id"))
	if d == nil || d.owner() != current(c).id() {
		return fail(c, http.StatusNotFound, "Reminder not found")
	}
	if body.IsActive != nil {
		d["isActive"] = *body.IsActive
	} else {
		active, _ := d["isActive"].(bool)
		d["isActive"] = !active
	}
	return ok(c, http.StatusOK, d.clone())
}

func (s *Server) handleAvailableDoctors(c echo.Context) error {
	s.mu.Lock()
	docs := s.data[KindDoctors].newestFirst(func(d doc) bool { return d.str("status") == string(v1.DoctorAvailable) })
	s.mu.Unlock()

	out := make([]doc, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.clone())
	}
	return ok(c, http.StatusOK, out)
}

func (s *Server) handleBook(c echo.Context) error {
	var in v1.AppointmentInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := in.Validate(); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data[KindDoctors].get(in.DoctorID) == nil {
		return fail(c, http.StatusBadRequest, "Doctor not found")
	}
	d := s.data[KindAppointments].insert(doc{
		"userId":          current(c).id(),
		"doctorId":        in.DoctorID,
		"appointmentDate": in.AppointmentDate,
		"appointmentTime": in.AppointmentTime,
		"patientName":     in.PatientName,
		"phoneNumber":     in.PhoneNumber,
		"description":     in.Description,
		"status":          string(v1.StatusPending),
	})
	return ok(c, http.StatusCreated, s.populate(d))
}

// populate replaces doctorId with the doctor document, as the real API does
// on reads.
func (s *Server) populate(d doc) doc {
	out := d.clone()
	if doctor := s.data[KindDoctors].get(d.str("doctorId")); doctor != nil {
		out["doctorId"] = doctor.clone()
	}
	return out
}

func (s *Server) handleListAppointments(all bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid := current(c).id()
		status := c.QueryParam("status")

		s.mu.Lock()
		docs := s.data[KindAppointments].newestFirst(func(d doc) bool {
			return (all || d.owner() == uid) && (status == "" || d.str("status") == status)
		})
		populated := make([]doc, len(docs))
		for i, d := range docs {
			populated[i] = s.populate(d)
		}
		s.mu.Unlock()

		return paginate(c, populated)
	}
}

func (s *Server) handleGetAppointment(all bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()

		d := s.data[KindAppointments].get(c.Param("id"))
		if d == nil || (!all && d.owner() != current(c).id()) {
			return fail(c, http.StatusNotFound, "Appointment not found")
		}
		return ok(c, http.StatusOK, s.populate(d))
	}
}

func (s *Server) handleCancel(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.data[KindAppointments].get(c.Param("id"))
	if d == nil || d.owner() != current(c).id() {
		return fail(c, http.StatusNotFound, "Appointment not found")
	}
	if !v1.CanTransition(v1.AppointmentStatus(d.str("status")), v1.StatusCancelled) {
		return fail(c, http.StatusBadRequest, "Only pending appointments can be cancelled")
	}
	d["status"] = string(v1.StatusCancelled)
	return ok(c, http.StatusOK, s.populate(d))
}

func (s *Server) handleUpdateStatus(c echo.Context) error {
	var in v1.StatusUpdate
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.data[KindAppointments].get(c.Param("id"))
	if d == nil {
		return fail(c, http.StatusNotFound, "Appointment not found")
	}
	if !v1.CanTransition(v1.AppointmentStatus(d.str("status")), in.Status) {
		return fail(c, http.StatusBadRequest, "Invalid status transition")
	}
	d["status"] = string(in.Status)
	d["adminNote"] = in.AdminNote
	return ok(c, http.StatusOK, s.populate(d))
}

func (s *Server) handleAsk(c echo.Context) error {
	var in v1.AskInput
	if err := c.Bind(&in); err != nil || strings.TrimSpace(in.Question) == "" {
		return fail(c, http.StatusBadRequest, "Question is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.data[KindChats].insert(doc{
		"userId":   current(c).id(),
		"question": in.Question,
		"answer":   "Please consult a doctor about: " + in.Question,
		"category": "general",
	})
	return ok(c, http.StatusCreated, d.clone())
}

func (s *Server) ownChats(c echo.Context) []doc {
	uid := current(c).id()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[KindChats].newestFirst(func(d doc) bool { return d.owner() == uid })
}

func (s *Server) handleChatHistory(c echo.Context) error {
	return paginate(c, s.ownChats(c))
}

func (s *Server) handleRate(c echo.Context) error {
	var in v1.RatingInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if v1.ValidateRating(in.Rating) != nil {
		return fail(c, http.StatusBadRequest, "Rating must be between 1 and 5")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.data[KindChats].get(c.Param("id"))
	if d == nil || d.owner() != current(c).id() {
		return fail(c, http.StatusNotFound, "Chat not found")
	}
	d["rating"] = in.Rating
	return ok(c, http.StatusOK, d.clone())
}

func (s *Server) handleDeleteChat(c echo.Context) error {
	return s.handleDelete(resource{kind: KindChats})(c)
}

func (s *Server) handleClearHistory(c echo.Context) error {
	uid := current(c).id()
	s.mu.Lock()
	n := s.data[KindChats].removeWhere(func(d doc) bool { return d.owner() == uid })
	s.mu.Unlock()
	return ok(c, http.StatusOK, map[string]int{"deletedCount": n})
}

func (s *Server) count(kind, uid string, keep func(doc) bool) int {
	n := 0
	for _, d := range s.data[kind].docs {
		if (uid == "" || d.owner() == uid) && (keep == nil || keep(d)) {
			n++
		}
	}
	return n
}

// handleHealthReport returns only the total; series are left for the
// client to derive from raw records.
func (s *Server) handleHealthReport(c echo.Context) error {
	uid := current(c).id()
	s.mu.Lock()
	total := s.count(KindRecords, uid, nil)
	s.mu.Unlock()

	return ok(c, http.StatusOK, v1.HealthReport{
		TotalRecords:         total,
		WeightHistory:        []v1.WeightPoint{},
		BMIHistory:           []v1.BMIPoint{},
		BloodPressureHistory: []v1.BloodPressurePoint{},
	})
}

func (s *Server) handleChatbotReport(c echo.Context) error {
	uid := current(c).id()
	s.mu.Lock()
	total := s.count(KindChats, uid, nil)
	s.mu.Unlock()

	return ok(c, http.StatusOK, v1.ChatbotReport{
		TotalChats:     total,
		RecentActivity: []v1.DateCount{},
		PopularTopics:  []v1.TopicCount{},
	})
}

func (s *Server) handleDashboardReport(c echo.Context) error {
	uid := current(c).id()
	var out v1.DashboardReport

	s.mu.Lock()
	out.HealthSummary.TotalRecords = s.count(KindRecords, uid, nil)
	out.ChatSummary.TotalQuestions = s.count(KindChats, uid, nil)
	s.mu.Unlock()

	return ok(c, http.StatusOK, out)
}

func (s *Server) handleAdminStats(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return ok(c, http.StatusOK, v1.AdminStats{
		TotalHealthRecords: s.count(KindRecords, "", nil),
		TotalChatQuestions: s.count(KindChats, "", nil),
		TotalActiveReminders: s.count(KindReminders, "", func(d doc) bool {
			active, _ := d["isActive"].(bool)
			return active
		}),
	})
}

func (s *Server) handleSearch(c echo.Context) error {
	keyword := c.QueryParam("keyword")
	if strings.TrimSpace(keyword) == "" {
		return fail(c, http.StatusBadRequest, "Keyword is required")
	}
	kind := c.QueryParam("type")
	uid := current(c).id()
	page, limit := pageParams(c)

	s.mu.Lock()
	var chats, records []doc
	if kind == "" || kind == "all" || kind == "chats" {
		chats = s.data[KindChats].newestFirst(func(d doc) bool {
			return d.owner() == uid && matches(d, keyword, "question", "answer", "category")
		})
	}
	if kind == "" || kind == "all" || kind == "records" {
		records = s.data[KindRecords].newestFirst(func(d doc) bool {
			return d.owner() == uid && matches(d, keyword, "note")
		})
	}
	s.mu.Unlock()

	total := len(chats) + len(records)
	return ok(c, http.StatusOK, map[string]any{
		"results": map[string]any{
			"chats":         slicePage(chats, page, limit),
			"healthRecords": slicePage(records, page, limit),
		},
		"pagination": map[string]int{"page": page, "limit": limit, "total": total},
	})
}

func (s *Server) handleSearchChats(c echo.Context) error {
	keyword := c.QueryParam("keyword")
	chats := s.ownChats(c)
	out := chats[:0:0]
	for _, d := range chats {
		if matches(d, keyword, "question", "answer") {
			out = append(out, d)
		}
	}
	return paginate(c, out)
}

func (s *Server) handleGoalProgress(c echo.Context) error {
	var in v1.ProgressInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.data[KindGoals].get(c.Param("id"))
	if d == nil || d.owner() != current(c).id() {
		return fail(c, http.StatusNotFound, "Goal not found")
	}
	d["currentValue"] = in.CurrentValue
	if target := d.num("targetValue"); target > 0 {
		progress := min(in.CurrentValue/target*100, 100)
		d["progress"] = progress
		if progress >= 100 {
			d["status"] = string(v1.GoalCompleted)
		}
	}
	return ok(c, http.StatusOK, d.clone())
}

func (s *Server) handleDailyWater(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		date = now()[:len(v1.DateLayout)]
	}
	uid := current(c).id()

	s.mu.Lock()
	total := 0.0
	for _, d := range s.data[KindWater].docs {
		if d.owner() == uid && strings.HasPrefix(d.str("date"), date) {
			total += d.num("amount")
		}
	}
	s.mu.Unlock()

	return ok(c, http.StatusOK, v1.DailyWater{Date: date, Total: int(total)})
}

func (s *Server) handleStatistics(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		period := c.QueryParam("period")
		if period == "" {
			period = "week"
		}
		if !v1.ValidPeriod(period) {
			return fail(c, http.StatusBadRequest, "Invalid period")
		}
		uid := current(c).id()

		s.mu.Lock()
		n := s.count(kind, uid, nil)
		s.mu.Unlock()

		return ok(c, http.StatusOK, v1.Statistics{"period": period, "count": n})
	}
}
