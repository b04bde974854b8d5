package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rogersnm/contractme/internal/api"
	"github.com/rogersnm/contractme/internal/dashboard"
	"github.com/rogersnm/contractme/internal/store"
)

func (s *Server) listCategories(c *gin.Context) {
	respond(c, http.StatusOK, s.cats.List())
}

func (s *Server) addCategory(c *gin.Context) {
	var req api.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	added, err := s.cats.Add(req.Name)
	if err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", store.ErrInvalidCategory, err))
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	respond(c, status, s.cats.List())
}

func (s *Server) getCalendar(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		badRequest(c, "year must be an integer")
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		badRequest(c, "month must be an integer")
		return
	}
	grid, err := s.calendar.Build(year, month)
	if err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", store.ErrInvalidInput, err))
		return
	}
	respond(c, http.StatusOK, grid)
}

func (s *Server) getDashboard(c *gin.Context) {
	respond(c, http.StatusOK, dashboard.Build(s.st, dashboard.Options{
		RecentDays:   s.opts.RecentDays,
		UpcomingDays: s.opts.UpcomingDays,
	}))
}
