package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"dataapi/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// handleData serves GET /api/data: every document of the collection as a
// JSON array, or {"error": ...} with status 500.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	// A request runs to completion even if the client goes away.
	ctx := context.WithoutCancel(r.Context())
	logger := s.logger.WithFields(logrus.Fields{
		"database":   s.opts.Database,
		"collection": s.opts.Collection,
	})

	start := time.Now()
	docs, err := s.fetcher.FetchAll(ctx)
	elapsed := time.Since(start)
	if err != nil {
		kind := common.ErrorKind(err)
		logger.WithError(err).WithField("error_type", kind).Error("failed to fetch documents")
		s.metrics.RecordFetchError(s.opts.Database, s.opts.Collection, kind, elapsed)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if docs == nil {
		docs = []common.Document{}
	}

	s.metrics.RecordFetchSuccess(s.opts.Database, s.opts.Collection, len(docs), elapsed)
	logger.WithFields(logrus.Fields{
		"documents": len(docs),
		"duration":  elapsed.String(),
	}).Info("served documents")
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// writeJSON writes data as a JSON response with the supplied status code.
// Nothing is written before encoding succeeds, so a failure never produces a
// partial body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: "failed to encode response: " + err.Error()})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
