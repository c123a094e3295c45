package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/gamehdr/pkg/codec"
	"github.com/ssargent/gamehdr/pkg/storage"
	"github.com/ssargent/gamehdr/pkg/store"
)

const defaultScanLimit = 100

// NewPackedHeader describes h together with its encoding b
func NewPackedHeader(h codec.Header, b byte) PackedHeader {
	return PackedHeader{
		Header: h,
		Byte:   b,
		Hex:    fmt.Sprintf("0x%02x", b),
		Binary: fmt.Sprintf("0b%08b", b),
	}
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrCorruption):
		return http.StatusInternalServerError
	case errors.Is(err, codec.ErrInvalidEncoding):
		return http.StatusUnprocessableEntity
	case errors.Is(err, codec.ErrGamesOutOfRange), errors.Is(err, codec.ErrUnknownSpeed),
		errors.Is(err, codec.ErrUnknownMode):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) decodeHeaderBody(r *http.Request) (codec.Header, error) {
	var h codec.Header
	if err := json.NewDecoder(r.Body).Decode(&h); err != nil {
		return codec.Header{}, fmt.Errorf("invalid header body: %w", err)
	}
	return h, nil
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleEncode godoc
//
//	@Summary		Encode a header
//	@Description	Pack a JSON header into its one-byte form
//	@Tags			codec
//	@Accept			json
//	@Produce		json
//	@Param			header	body	codec.Header	true	"Header"
//	@Success		200	{object}	PackedHeader
//	@Failure		400	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/headers/encode [post]
func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	h, err := s.decodeHeaderBody(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, err := s.codec.Encode(h)
	s.metrics.RecordCodecOperation("encode", err == nil)
	if err != nil {
		sendError(w, err.Error(), statusFor(err))
		return
	}

	sendSuccess(w, NewPackedHeader(h, b))
}

// handleDecode godoc
//
//	@Summary		Decode a byte
//	@Description	Unpack a byte given as decimal, 0x hex or 0b binary
//	@Tags			codec
//	@Produce		json
//	@Param			value	path	string	true	"Byte value"
//	@Success		200	{object}	PackedHeader
//	@Failure		400	{object}	APIResponse
//	@Failure		422	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/headers/decode/{value} [get]
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "value")
	value, err := strconv.ParseUint(raw, 0, 8)
	if err != nil {
		sendError(w, fmt.Sprintf("invalid byte value %q", raw), http.StatusBadRequest)
		return
	}

	b := byte(value)
	h, err := s.codec.Decode(b)
	s.metrics.RecordCodecOperation("decode", err == nil)
	if err != nil {
		if errors.Is(err, codec.ErrInvalidEncoding) {
			s.metrics.RecordInvalidEncoding()
		}
		sendError(w, err.Error(), statusFor(err))
		return
	}

	sendSuccess(w, NewPackedHeader(h, b))
}

// handleAppend godoc
//
//	@Summary		Append a header
//	@Description	Append a header to the header log and return its index
//	@Tags			log
//	@Accept			json
//	@Produce		json
//	@Param			header	body	codec.Header	true	"Header"
//	@Success		201	{object}	LogEntry
//	@Failure		400	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/log [post]
func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	h, err := s.decodeHeaderBody(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, err := s.codec.Encode(h)
	s.metrics.RecordCodecOperation("encode", err == nil)
	if err != nil {
		sendError(w, err.Error(), statusFor(err))
		return
	}

	index, err := s.log.Append(h)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to append header")
		sendError(w, err.Error(), statusFor(err))
		return
	}
	s.metrics.UpdateLogStats(s.log.Len())

	sendCreated(w, LogEntry{Index: index, PackedHeader: NewPackedHeader(h, b)})
}

// handleGetLogEntry godoc
//
//	@Summary		Get a header by index
//	@Description	Get the header stored at an index of the header log
//	@Tags			log
//	@Produce		json
//	@Param			index	path	int	true	"Header index"
//	@Success		200	{object}	LogEntry
//	@Failure		400	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/log/{index} [get]
func (s *Server) handleGetLogEntry(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.ParseInt(chi.URLParam(r, "index"), 10, 64)
	if err != nil || index < 0 {
		sendError(w, "index must be a non-negative integer", http.StatusBadRequest)
		return
	}

	h, err := s.log.Get(index)
	if err != nil {
		sendError(w, err.Error(), statusFor(err))
		return
	}

	b, _ := h.Pack()
	sendSuccess(w, LogEntry{Index: index, PackedHeader: NewPackedHeader(h, b)})
}

// handleScan godoc
//
//	@Summary		List headers
//	@Description	List headers of the header log, paginated with start and limit
//	@Tags			log
//	@Produce		json
//	@Param			start	query	int	false	"First index"
//	@Param			limit	query	int	false	"Maximum headers (default 100)"
//	@Success		200	{object}	APIResponse
//	@Failure		400	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/log [get]
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	start, err := queryInt(r, "start", 0)
	if err != nil || start < 0 {
		sendError(w, "start must be a non-negative integer", http.StatusBadRequest)
		return
	}
	limit, err := queryInt(r, "limit", defaultScanLimit)
	if err != nil || limit <= 0 {
		sendError(w, "limit must be a positive integer", http.StatusBadRequest)
		return
	}

	headers, err := s.log.Scan(int64(start), limit)
	if err != nil {
		sendError(w, err.Error(), statusFor(err))
		return
	}

	entries := make([]LogEntry, 0, len(headers))
	for i, h := range headers {
		b, _ := h.Pack()
		entries = append(entries, LogEntry{Index: int64(start + i), PackedHeader: NewPackedHeader(h, b)})
	}

	sendSuccess(w, map[string]interface{}{
		"entries": entries,
		"total":   s.log.Len(),
	})
}

// handleStats godoc
//
//	@Summary		Header log statistics
//	@Description	Count headers and games per speed and mode
//	@Tags			log
//	@Produce		json
//	@Success		200	{object}	store.LogStats
//	@Security		ApiKeyAuth
//	@Router			/stats [get]
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.log.Stats()
	if err != nil {
		sendError(w, err.Error(), statusFor(err))
		return
	}
	s.metrics.UpdateLogStats(stats.Headers)
	sendSuccess(w, stats)
}

func (s *Server) decodeBatchBody(w http.ResponseWriter, r *http.Request) ([]codec.Header, bool) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, fmt.Sprintf("invalid batch body: %v", err), http.StatusBadRequest)
		return nil, false
	}
	return req.Headers, true
}

func batchID(w http.ResponseWriter, r *http.Request) (ksuid.KSUID, bool) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "invalid batch id", http.StatusBadRequest)
		return ksuid.Nil, false
	}
	return id, true
}

// handleCreateBatch godoc
//
//	@Summary		Create a batch
//	@Description	Store a batch of headers under a new KSUID
//	@Tags			batches
//	@Accept			json
//	@Produce		json
//	@Param			batch	body	BatchRequest	true	"Batch"
//	@Success		201	{object}	BatchResponse
//	@Failure		400	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/batches [post]
func (s *Server) handleCreateBatch(w http.ResponseWriter, r *http.Request) {
	headers, ok := s.decodeBatchBody(w, r)
	if !ok {
		return
	}

	id, err := s.batches.Create(headers)
	if err != nil {
		sendError(w, err.Error(), statusFor(err))
		return
	}

	sendCreated(w, BatchResponse{ID: id.String(), Headers: headers})
}

// handleGetBatch godoc
//
//	@Summary		Get a batch
//	@Description	Get the headers of a stored batch
//	@Tags			batches
//	@Produce		json
//	@Param			id	path	string	true	"Batch KSUID"
//	@Success		200	{object}	BatchResponse
//	@Failure		400	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Failure		422	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/batches/{id} [get]
func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := batchID(w, r)
	if !ok {
		return
	}

	headers, err := s.batches.Read(id)
	if err != nil {
		if errors.Is(err, codec.ErrInvalidEncoding) {
			s.metrics.RecordInvalidEncoding()
		}
		sendError(w, err.Error(), statusFor(err))
		return
	}

	sendSuccess(w, BatchResponse{ID: id.String(), Headers: headers})
}

// handleUpdateBatch godoc
//
//	@Summary		Replace a batch
//	@Description	Replace the headers of an existing batch
//	@Tags			batches
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Batch KSUID"
//	@Param			batch	body	BatchRequest	true	"Batch"
//	@Success		200	{object}	BatchResponse
//	@Failure		400	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/batches/{id} [put]
func (s *Server) handleUpdateBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := batchID(w, r)
	if !ok {
		return
	}
	headers, ok := s.decodeBatchBody(w, r)
	if !ok {
		return
	}

	if err := s.batches.Update(id, headers); err != nil {
		sendError(w, err.Error(), statusFor(err))
		return
	}

	sendSuccess(w, BatchResponse{ID: id.String(), Headers: headers})
}

// handleDeleteBatch godoc
//
//	@Summary		Delete a batch
//	@Description	Delete a stored batch
//	@Tags			batches
//	@Produce		json
//	@Param			id	path	string	true	"Batch KSUID"
//	@Success		200	{object}	map[string]string
//	@Failure		400	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/batches/{id} [delete]
func (s *Server) handleDeleteBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := batchID(w, r)
	if !ok {
		return
	}

	if err := s.batches.Delete(id); err != nil {
		sendError(w, err.Error(), statusFor(err))
		return
	}

	sendSuccess(w, map[string]string{"deleted": id.String()})
}

// handleListBatches godoc
//
//	@Summary		List batches
//	@Description	List stored batch ids, oldest first
//	@Tags			batches
//	@Produce		json
//	@Success		200	{object}	[]BatchResponse
//	@Security		ApiKeyAuth
//	@Router			/batches [get]
func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	ids, err := s.batches.List()
	if err != nil {
		sendError(w, err.Error(), statusFor(err))
		return
	}

	batches := make([]BatchResponse, 0, len(ids))
	for _, id := range ids {
		batches = append(batches, BatchResponse{ID: id.String()})
	}
	sendSuccess(w, batches)
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
