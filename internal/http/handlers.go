package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"fuelstats/internal/core"
	applog "fuelstats/internal/log"
)

const maxBodyBytes = 1 << 16

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	collection := s.collection(r)
	ctx, cancel := context.WithTimeout(r.Context(), s.deps.RequestTimeout)
	defer cancel()

	summary, err := s.deps.Reports.Summary(ctx, collection)
	if err != nil {
		s.writeError(w, r, applog.OpSummary, collection, err)
		return
	}
	writeJSON(w, http.StatusOK, newSummaryResponse(summary))
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	collection := s.collection(r)
	ctx, cancel := context.WithTimeout(r.Context(), s.deps.RequestTimeout)
	defer cancel()

	breakdown, err := s.deps.Reports.Expenses(ctx, collection)
	if err != nil {
		s.writeError(w, r, applog.OpExpenses, collection, err)
		return
	}
	writeJSON(w, http.StatusOK, newBreakdownResponse(breakdown))
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	collection := s.collection(r)
	if err := core.ValidateCollection(collection); err != nil {
		s.writeError(w, r, applog.OpAppend, collection, err)
		return
	}

	var req createRecordRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	rec, err := core.ParseRecord(req.Amount.String(), req.AtDistance.String(), req.DateChanged)
	if err == nil {
		err = rec.Validate(nil)
	}
	if err != nil {
		s.writeError(w, r, applog.OpAppend, collection, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.deps.RequestTimeout)
	defer cancel()

	ref, err := s.deps.Writer.AppendRecord(ctx, collection, rec)
	if err != nil {
		s.writeError(w, r, applog.OpAppend, collection, err)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Record created",
		applog.FieldCollection, collection,
		applog.FieldRef, ref)
	writeJSON(w, http.StatusCreated, createRecordResponse{Ref: ref})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op, collection string, err error) {
	status := statusFor(err)
	logger := applog.FromContext(r.Context())
	fields := applog.NewFields().
		WithOperation(op).
		WithCollection(collection).
		WithError(err)

	msg := err.Error()
	switch {
	case errors.Is(err, core.ErrNotEnoughData):
		msg = core.ErrNotEnoughData.Error()
	case errors.Is(err, core.ErrUndefinedMileage):
		msg = core.ErrUndefinedMileage.Error()
	}

	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", fields.ToSlice()...)
		// source details stay in the log
		msg = "record source unavailable"
	} else {
		logger.DebugContext(r.Context(), "Request rejected", fields.ToSlice()...)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
