package web

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"garagelog/internal/importer"
	"garagelog/internal/models"
	"garagelog/internal/mpg"
)

// templateFuncs are the formatting helpers available to every template.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"date": func(v any) string {
			switch t := v.(type) {
			case time.Time:
				return t.Format("2006-01-02")
			case *time.Time:
				if t == nil {
					return "—"
				}
				return t.Format("2006-01-02")
			}
			return ""
		},
		"money": func(d *decimal.Decimal) string {
			if d == nil {
				return "—"
			}
			return "$" + d.StringFixed(2)
		},
		"miles": func(n int) string {
			sign := ""
			if n < 0 {
				sign = "-"
				n = -n
			}
			s := strconv.Itoa(n)
			// insert thousands separators right-to-left
			for i := len(s) - 3; i > 0; i -= 3 {
				s = s[:i] + "," + s[i:]
			}
			return sign + s
		},
		"mpg": func(v *float64) string {
			if v == nil {
				return "N/A"
			}
			return strconv.FormatFloat(*v, 'f', 1, 64)
		},
	}
}

// renderError shows the shared error page.
func (s *Server) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{
		"Account": activeAccount(c),
		"Message": message,
	})
}

// parseIDParam reads the :id path segment, responding 400 on garbage.
func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// parseFormDate reads the value of an HTML date input.
func parseFormDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(s))
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optionalInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// optionalCost accepts the same flexible currency formats as the CSV
// importer, so "$45.99" works in forms too.
func optionalCost(s string) (*decimal.Decimal, error) {
	return importer.ParseCost(s)
}

// parseTireMeta collects the four tread-depth inputs that tread.js shows
// for tire rotations; all-empty means no capture.
func parseTireMeta(c *gin.Context) *models.TireMeta {
	read := func(field string) *float64 {
		v := strings.TrimSpace(c.PostForm(field))
		if v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil
		}
		return &f
	}

	tm := models.TireMeta{
		FrontLeft:  read("tread_front_left"),
		FrontRight: read("tread_front_right"),
		RearLeft:   read("tread_rear_left"),
		RearRight:  read("tread_rear_right"),
	}
	if tm.FrontLeft == nil && tm.FrontRight == nil && tm.RearLeft == nil && tm.RearRight == nil {
		return nil
	}
	return &tm
}

// mpgConfig derives the aggregation settings from server config.
func (s *Server) mpgConfig() mpg.Config {
	return mpg.Config{
		GapMultiplier:    s.cfg.GapMultiplier,
		GapFallbackMiles: s.cfg.GapFallbackMiles,
		CurrentWindow:    s.cfg.CurrentWindow,
	}
}
