package apitest

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// resource describes a collection served by the generic CRUD handlers.
type resource struct {
	kind string
	// shared collections are visible to every user.
	shared bool
	// adminWrites restricts create, update and delete to admins.
	adminWrites bool
	defaults    doc
	validate    func(doc) string
	filters     []string
}

func (s *Server) registerRoutes() {
	api := s.echo.Group("/api")
	auth := s.authenticate

	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)
	api.GET("/auth/me", s.handleMe, auth)
	api.POST("/auth/logout", s.handleLogout, auth)

	users := api.Group("/users", auth)
	users.GET("", s.handleListUsers, s.adminOnly)
	users.DELETE("/:id", s.handleDeleteUser, s.adminOnly)
	users.PUT("/profile", s.handleUpdateProfile)
	users.PUT("/change-password", s.handleChangePassword)

	records := api.Group("/"+KindRecords, auth)
	records.GET("/latest", s.handleLatestRecord)
	s.mountCRUD(records, resource{
		kind:     KindRecords,
		validate: requireOneOf("Please provide height or weight", "height", "weight"),
	})

	reminders := api.Group("/"+KindReminders, auth)
	reminders.PUT("/:id/toggle", s.handleToggleReminder)
	s.mountCRUD(reminders, resource{
		kind:     KindReminders,
		defaults: doc{"isActive": true, "type": "other"},
		validate: requireOneOf("Title is required", "title"),
		filters:  []string{"isActive", "type"},
	})

	doctors := api.Group("/"+KindDoctors, auth)
	api.GET("/doctors/available", s.handleAvailableDoctors)
	s.mountCRUD(doctors, resource{
		kind:        KindDoctors,
		shared:      true,
		adminWrites: true,
		defaults:    doc{"status": string(v1.DoctorAvailable)},
		validate:    requireOneOf("Doctor name is required", "name"),
		filters:     []string{"status"},
	})

	appts := api.Group("/"+KindAppointments, auth)
	appts.POST("", s.handleBook)
	appts.GET("", s.handleListAppointments(true), s.adminOnly)
	appts.GET("/my-appointments", s.handleListAppointments(false))
	appts.GET("/my-appointments/:id", s.handleGetAppointment(false))
	appts.PUT("/my-appointments/:id/cancel", s.handleCancel)
	appts.GET("/:id", s.handleGetAppointment(true), s.adminOnly)
	appts.PUT("/:id/status", s.handleUpdateStatus, s.adminOnly)

	chat := api.Group("/chatbot", auth)
	chat.POST("/ask", s.handleAsk)
	chat.GET("/history", s.handleChatHistory)
	chat.PUT("/:id/rate", s.handleRate)
	chat.DELETE("/history/clear", s.handleClearHistory)
	chat.DELETE("/:id", s.handleDeleteChat)

	reports := api.Group("/reports", auth)
	reports.GET("/health", s.handleHealthReport)
	reports.GET("/chatbot", s.handleChatbotReport)
	reports.GET("/dashboard", s.handleDashboardReport)
	reports.GET("/admin/stats", s.handleAdminStats, s.adminOnly)

	search := api.Group("/search", auth)
	search.GET("", s.handleSearch)
	search.GET("/chats", s.handleSearchChats)

	goals := api.Group("/"+KindGoals, auth)
	goals.PUT("/:id/progress", s.handleGoalProgress)
	s.mountCRUD(goals, resource{
		kind:     KindGoals,
		defaults: doc{"status": "active", "currentValue": 0.0, "progress": 0.0},
		validate: requireOneOf("Goal title is required", "title"),
		filters:  []string{"status"},
	})

	water := api.Group("/"+KindWater, auth)
	water.GET("/daily", s.handleDailyWater)
	water.GET("/statistics", s.handleStatistics(KindWater))
	water.GET("", s.handleList(resource{kind: KindWater}))
	water.POST("", s.handleCreate(resource{kind: KindWater, validate: requireOneOf("Amount is required", "amount")}))
	water.DELETE("/:id", s.handleDelete(resource{kind: KindWater}))

	exercise := api.Group("/"+KindExercise, auth)
	exercise.GET("/statistics", s.handleStatistics(KindExercise))
	s.mountCRUD(exercise, resource{
		kind:     KindExercise,
		defaults: doc{"exerciseType": "running", "intensity": "moderate"},
		validate: requireOneOf("Exercise name is required", "exerciseName"),
	})

	sleep := api.Group("/"+KindSleep, auth)
	sleep.GET("/statistics", s.handleStatistics(KindSleep))
	s.mountCRUD(sleep, resource{
		kind:     KindSleep,
		defaults: doc{"quality": "good", "wakeUpCount": 0.0},
		validate: requireOneOf("Sleep date is required", "sleepDate"),
	})
}

func requireOneOf(message string, keys ...string) func(doc) string {
	return func(d doc) string {
		for _, k := range keys {
			if v, ok := d[k]; ok && v != nil && v != "" {
				return ""
			}
		}
		return message
	}
}

func (s *Server) mountCRUD(g *echo.Group, r resource) {
	write := []echo.MiddlewareFunc{}
	if r.adminWrites {
		write = append(write, s.adminOnly)
	}
	g.GET("", s.handleList(r))
	g.POST("", s.handleCreate(r), write...)
	g.GET("/:id", s.handleGet(r))
	g.PUT("/:id", s.handleUpdate(r), write...)
	g.DELETE("/:id", s.handleDelete(r), write...)
}

func (s *Server) visible(c echo.Context, r resource) func(doc) bool {
	uid := current(c).id()
	return func(d doc) bool { return r.shared || d.owner() == uid }
}

func (s *Server) handleList(r resource) echo.HandlerFunc {
	return func(c echo.Context) error {
		visible := s.visible(c, r)
		keep := func(d doc) bool {
			if !visible(d) {
				return false
			}
			for _, f := range r.filters {
				if want := c.QueryParam(f); want != "" && fmt.Sprint(d[f]) != want {
					return false
				}
			}
			return true
		}

		s.mu.Lock()
		docs := s.data[r.kind].newestFirst(keep)
		s.mu.Unlock()

		return paginate(c, docs)
	}
}

func (s *Server) handleGet(r resource) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		d := s.data[r.kind].get(c.Param("id"))
		s.mu.Unlock()

		if d == nil || !s.visible(c, r)(d) {
			return fail(c, http.StatusNotFound, "Not found")
		}
		return ok(c, http.StatusOK, d)
	}
}

func (s *Server) handleCreate(r resource) echo.HandlerFunc {
	return func(c echo.Context) error {
		fields, err := bindDoc(c)
		if err != nil {
			return fail(c, http.StatusBadRequest, "Invalid request body")
		}
		if r.validate != nil {
			if msg := r.validate(fields); msg != "" {
				return fail(c, http.StatusBadRequest, msg)
			}
		}

		d := doc{}
		for k, v := range r.defaults {
			d[k] = v
		}
		d.merge(fields)
		if !r.shared {
			d["userId"] = current(c).id()
		}
		if r.kind == KindRecords {
			if _, set := d["recordDate"]; !set {
				d["recordDate"] = now()
			}
		}

		s.mu.Lock()
		created := s.data[r.kind].insert(d).clone()
		s.mu.Unlock()

		return ok(c, http.StatusCreated, created)
	}
}

func (s *Server) handleUpdate(r resource) echo.HandlerFunc {
	return func(c echo.Context) error {
		fields, err := bindDoc(c)
		if err != nil {
			return fail(c, http.StatusBadRequest, "Invalid request body")
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		d := s.data[r.kind].get(c.Param("id"))
		if d == nil || !s.visible(c, r)(d) {
			return fail(c, http.StatusNotFound, "Not found")
		}
		d.merge(fields)
		return ok(c, http.StatusOK, d.clone())
	}
}

func (s *Server) handleDelete(r resource) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()

		col := s.data[r.kind]
		d := col.get(c.Param("id"))
		if d == nil || !s.visible(c, r)(d) {
			return fail(c, http.StatusNotFound, "Not found")
		}
		col.remove(d.id())
		return c.JSON(http.StatusOK, envelope{Success: true, Message: "Deleted successfully"})
	}
}

func bindDoc(c echo.Context) (doc, error) {
	fields := doc{}
	if err := new(echo.DefaultBinder).BindBody(c, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// pageParams reads page and limit, defaulting to 1 and 10.
func pageParams(c echo.Context) (int, int) {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 1 {
		limit = defaultLim
	}
	return page, limit
}

func slicePage(docs []doc, page, limit int) []doc {
	start := (page - 1) * limit
	if start >= len(docs) {
		return []doc{}
	}
	end := min(start+limit, len(docs))
	out := make([]doc, 0, end-start)
	for _, d := range docs[start:end] {
		out = append(out, d.clone())
	}
	return out
}

func paginate(c echo.Context, docs []doc) error {
	page, limit := pageParams(c)
	return c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    slicePage(docs, page, limit),
		Pagination: &pagination{
			Page:       page,
			Limit:      limit,
			TotalItems: len(docs),
			TotalPages: int(math.Ceil(float64(len(docs)) / float64(limit))),
		},
	})
}

func matches(d doc, keyword string, keys ...string) bool {
	if keyword == "" {
		return true
	}
	keyword = strings.ToLower(keyword)
	for _, k := range keys {
		if strings.Contains(strings.ToLower(d.str(k)), keyword) {
			return true
		}
	}
	return false
}
