package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finsight/internal/dataset"
	"github.com/cleared-dev/finsight/internal/logger"
	"github.com/cleared-dev/finsight/internal/model"
	"github.com/cleared-dev/finsight/internal/session"
)

const exportFilename = "financial_data.csv"

// rowJSON is the wire form of a canonical row.
type rowJSON struct {
	Date        *string         `json:"date"`
	Account     string          `json:"account"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Level       int             `json:"level"`
	AccountType string          `json:"account_type"`
}

type fileResult struct {
	File   string `json:"file"`
	Kind   string `json:"kind,omitempty"`
	Routed bool   `json:"routed"`
	Rows   int    `json:"rows"`
	Error  string `json:"error,omitempty"`
}

func toJSON(rows []model.Row) []rowJSON {
	out := make([]rowJSON, 0, len(rows))
	for _, r := range rows {
		j := rowJSON{
			Account:     r.Account,
			Amount:      r.Amount,
			Type:        string(r.Type),
			Level:       r.Level,
			AccountType: r.AccountType,
		}
		if r.Date != nil {
			d := r.Date.Format("2006-01-02")
			j.Date = &d
		}
		out = append(out, j)
	}
	return out
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) createSession(c *gin.Context) {
	id, err := s.newSession()
	if err != nil {
		s.abort(c, err)
		return
	}
	log := logger.FromContext(c.Request.Context())
	log.Info().Str("session", id).Msg("session created")
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) deleteSession(c *gin.Context) {
	if !s.dropSession(c.Param("id")) {
		s.abort(c, ErrUnknownSession)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) uploadFiles(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload())
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("reading upload: %v", err)})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
		return
	}

	results := make([]fileResult, 0, len(files))
	var rows int
	var loaded bool
	err = s.withSession(c.Param("id"), func(sess *session.Session) {
		for _, fh := range files {
			fr := fileResult{File: fh.Filename}
			f, err := fh.Open()
			if err != nil {
				fr.Error = fmt.Sprintf("opening %s: %v", fh.Filename, err)
				results = append(results, fr)
				continue
			}
			res, err := sess.IngestReader(fh.Filename, f)
			f.Close()

			fr.Routed, fr.Rows = res.Routed, res.Rows
			if res.Routed {
				fr.Kind = string(res.Kind)
			}
			if err != nil {
				fr.Error = err.Error()
			}
			results = append(results, fr)
		}
		ds := sess.Dataset()
		rows, loaded = ds.Len(), ds != nil
	})
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": results, "rows": rows, "loaded": loaded})
}

func (s *Server) getSummary(c *gin.Context) {
	var sum dataset.Summary
	var loaded bool
	err := s.withSession(c.Param("id"), func(sess *session.Session) {
		sum = sess.Summary()
		loaded = sess.Dataset() != nil
	})
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loaded": loaded, "summary": sum})
}

func (s *Server) getRows(c *gin.Context) {
	level := 0
	if v := c.Query("level"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid level %q", v)})
			return
		}
		level = n
	}
	var typ model.AccountType
	if v := c.Query("type"); v != "" {
		t, ok := model.ParseAccountType(v)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid type %q", v)})
			return
		}
		typ = t
	}

	var ds *dataset.Dataset
	err := s.withSession(c.Param("id"), func(sess *session.Session) {
		ds = sess.Filter(level, typ)
	})
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loaded": ds != nil, "rows": toJSON(ds.Rows())})
}

func (s *Server) getTypes(c *gin.Context) {
	var types []model.AccountType
	err := s.withSession(c.Param("id"), func(sess *session.Session) {
		types = dataset.Types(sess.Dataset())
	})
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"types": types})
}

// getBreakdown serves chart data: ?levels=1,2 restricts levels and
// ?abs=true reports magnitudes.
func (s *Server) getBreakdown(c *gin.Context) {
	typ, ok := model.ParseAccountType(c.Param("type"))
	if !ok || typ == model.AllTypes {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid type %q", c.Param("type"))})
		return
	}
	var levels []int
	if v := c.Query("levels"); v != "" {
		for _, part := range strings.Split(v, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid levels %q", v)})
				return
			}
			levels = append(levels, n)
		}
	}

	var rows []model.Row
	err := s.withSession(c.Param("id"), func(sess *session.Session) {
		rows = dataset.Breakdown(sess.Dataset(), typ, levels...)
	})
	if err != nil {
		s.abort(c, err)
		return
	}
	if c.Query("abs") == "true" {
		rows = dataset.AbsAmounts(rows)
	}
	c.JSON(http.StatusOK, gin.H{"type": typ, "rows": toJSON(rows)})
}

func (s *Server) exportCSV(c *gin.Context) {
	var ds *dataset.Dataset
	err := s.withSession(c.Param("id"), func(sess *session.Session) {
		ds = sess.Dataset()
	})
	if err != nil {
		s.abort(c, err)
		return
	}
	if ds == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data uploaded"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename))
	c.Header("Content-Type", "text/csv")
	c.Status(http.StatusOK)
	if err := dataset.WriteCSV(c.Writer, ds); err != nil {
		log := logger.FromContext(c.Request.Context())
		log.Error().Err(err).Msg("writing export")
	}
}

func (s *Server) abort(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnknownSession):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, ErrTooManySessions):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	log := logger.FromContext(c.Request.Context())
	log.Error().Err(err).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
