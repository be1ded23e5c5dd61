package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/hummix/arrange"
	"github.com/jsphweid/hummix/chord"
	"github.com/jsphweid/hummix/constants"
	"github.com/jsphweid/hummix/db"
	"github.com/jsphweid/hummix/model"
	"github.com/jsphweid/hummix/storage"
	"github.com/jsphweid/hummix/synth"
	"github.com/jsphweid/hummix/wav"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

// MaxUploadBytes caps request bodies, about six minutes of mono audio.
const MaxUploadBytes = 32 << 20

// RenderKeyHeader carries the storage key of a persisted render.
const RenderKeyHeader = "X-Hummix-Render"

var (
	renders storage.Store
	takes   *db.TakeTable
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the render and extract API",
	Long:  `Serves the render and extract API`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := LoadServeDeps(); err != nil {
			return err
		}
		return serve()
	},
}

// LoadServeDeps connects render storage and the take table as configured
// by the environment.
func LoadServeDeps() error {
	store, err := storage.FromEnv()
	if err != nil {
		return err
	}
	table, err := db.FromEnv()
	if err != nil {
		return err
	}
	SetServeDeps(store, table)
	return nil
}

// SetServeDeps swaps the backends used by the handlers. Either may be nil.
func SetServeDeps(store storage.Store, table *db.TakeTable) {
	renders = store
	takes = table
}

type ArrangeRequestBody struct {
	Style  string `json:"style"`
	Bars   int    `json:"bars"`
	BPM    int    `json:"bpm"`
	Format string `json:"format"`
	Seed   int64  `json:"seed"`
}

type StyleInfo struct {
	Name        model.Style                      `json:"name"`
	BPM         int                              `json:"bpm"`
	Progression []string                         `json:"progression"`
	Voices      map[model.Instrument]model.Voice `json:"voices"`
}

func httpError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, db.ErrTakeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, storage.ErrIO):
		status = http.StatusBadGateway
	}
	if status >= 500 {
		slog.Error("request failed", "err", err)
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("could not encode response", "err", err)
	}
}

// writeRender answers with WAV bytes, persisting them first when a store
// is configured.
func writeRender(ctx context.Context, w http.ResponseWriter, data []byte) {
	if renders != nil {
		key := uuid.New().String() + ".wav"
		if err := renders.Put(ctx, key, data); err != nil {
			httpError(w, err)
			return
		}
		w.Header().Set(RenderKeyHeader, key)
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func HandleRender(w http.ResponseWriter, r *http.Request) {
	var s model.Score
	if err := json.NewDecoder(io.LimitReader(r.Body, MaxUploadBytes)).Decode(&s); err != nil {
		http.Error(w, "Could not decode score: "+err.Error(), http.StatusBadRequest)
		return
	}
	seed := int64(synth.DefaultSeed)
	if v := r.URL.Query().Get("seed"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "seed must be an integer", http.StatusBadRequest)
			return
		}
		seed = parsed
	}
	data, err := renderWav(s, seed)
	if err != nil {
		httpError(w, err)
		return
	}
	writeRender(r.Context(), w, data)
}

// HandleExtract reads a WAV body and answers with the detected take.
func HandleExtract(w http.ResponseWriter, r *http.Request) {
	bpm := constants.DefaultBPM
	if v := r.URL.Query().Get("bpm"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "bpm must be an integer", http.StatusBadRequest)
			return
		}
		if err := checkTempo(parsed); err != nil {
			httpError(w, err)
			return
		}
		bpm = parsed
	}
	bars := 0
	if v := r.URL.Query().Get("bars"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			http.Error(w, "bars must be a positive integer", http.StatusBadRequest)
			return
		}
		if err := checkBars(parsed); err != nil {
			httpError(w, err)
			return
		}
		bars = parsed
	}

	samples, err := wav.Read(io.LimitReader(r.Body, MaxUploadBytes))
	if err != nil {
		httpError(w, err)
		return
	}
	take := analyse(samples, bpm, bars, r.URL.Query().Get("source"))
	if takes != nil {
		if err := takes.Put(r.Context(), take); err != nil {
			httpError(w, err)
			return
		}
	}
	writeJSON(w, take)
}

func HandleArrange(w http.ResponseWriter, r *http.Request) {
	var input ArrangeRequestBody
	if err := json.NewDecoder(io.LimitReader(r.Body, MaxUploadBytes)).Decode(&input); err != nil {
		http.Error(w, "Could not decode request: "+err.Error(), http.StatusBadRequest)
		return
	}
	style, ok := model.ParseStyle(input.Style)
	if !ok && input.Style != "" {
		http.Error(w, fmt.Sprintf("Unknown style %q", input.Style), http.StatusBadRequest)
		return
	}
	if input.Bars == 0 {
		input.Bars = constants.DefaultBars
	}
	if err := checkBars(input.Bars); err != nil {
		httpError(w, err)
		return
	}
	s := arrange.FromStyle(style, input.Bars)
	if input.BPM > 0 {
		s.BPM = input.BPM
	}
	if err := s.Validate(); err != nil {
		httpError(w, err)
		return
	}

	switch input.Format {
	case "", "wav":
		seed := input.Seed
		if seed == 0 {
			seed = synth.DefaultSeed
		}
		data, err := renderWav(s, seed)
		if err != nil {
			httpError(w, err)
			return
		}
		writeRender(r.Context(), w, data)
	case "json":
		writeJSON(w, s)
	default:
		http.Error(w, fmt.Sprintf("Unknown format %q", input.Format), http.StatusBadRequest)
	}
}

func HandleStyles(w http.ResponseWriter, r *http.Request) {
	res := make([]StyleInfo, 0, len(model.Styles))
	for _, style := range model.Styles {
		res = append(res, StyleInfo{
			Name:        style,
			BPM:         style.BPM(),
			Progression: chord.ForStyle(style),
			Voices:      arrange.Voices(style),
		})
	}
	writeJSON(w, res)
}

// HandleGetRender serves a render persisted by an earlier request.
func HandleGetRender(w http.ResponseWriter, r *http.Request) {
	if renders == nil {
		http.Error(w, "Renders are not stored", http.StatusNotFound)
		return
	}
	data, err := renders.Get(r.Context(), mux.Vars(r)["key"])
	if err != nil {
		httpError(w, err)
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Write(data)
}

// HandleGetTake answers with one recorded take.
func HandleGetTake(w http.ResponseWriter, r *http.Request) {
	if takes == nil {
		http.Error(w, "Takes are not recorded", http.StatusNotFound)
		return
	}
	take, err := takes.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, take)
}

// HandleListTakes looks up the comma separated ids query in one batch.
// Unknown ids are left out and the rest keep the order they were asked in.
func HandleListTakes(w http.ResponseWriter, r *http.Request) {
	if takes == nil {
		http.Error(w, "Takes are not recorded", http.StatusNotFound)
		return
	}
	var ids []string
	for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		http.Error(w, "ids is required", http.StatusBadRequest)
		return
	}
	found, err := takes.BatchGet(r.Context(), ids)
	if err != nil {
		httpError(w, err)
		return
	}
	res := make([]model.Take, 0, len(found))
	for _, id := range ids {
		if take, ok := found[id]; ok {
			res = append(res, take)
			delete(found, id)
		}
	}
	writeJSON(w, res)
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/render", HandleRender).Methods("POST")
	router.HandleFunc("/renders/{key}", HandleGetRender).Methods("GET")
	router.HandleFunc("/extract", HandleExtract).Methods("POST")
	router.HandleFunc("/takes", HandleListTakes).Methods("GET")
	router.HandleFunc("/takes/{id}", HandleGetTake).Methods("GET")
	router.HandleFunc("/arrange", HandleArrange).Methods("POST")
	router.HandleFunc("/styles", HandleStyles).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		ExposedHeaders: []string{RenderKeyHeader},
	})
	return c.Handler(router)
}

func serve() error {
	addr := ":" + constants.GetPort()
	fmt.Printf("Listening on %v\n", addr)
	return http.ListenAndServe(addr, NewRouter())
}
