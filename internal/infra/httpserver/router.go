package httpserver

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	appds "github.com/rizaldy/datachat/internal/application/datasets"
	appq "github.com/rizaldy/datachat/internal/application/queries"
	domai "github.com/rizaldy/datachat/internal/domain/ai"
	domds "github.com/rizaldy/datachat/internal/domain/datasets"
	domq "github.com/rizaldy/datachat/internal/domain/queries"
	"github.com/rizaldy/datachat/internal/middleware"
)

//go:embed static/index.html
var staticFS embed.FS

type Router struct {
	datasetsSvc *appds.Service
	queriesSvc  *appq.Service
}

func NewRouter(datasetsSvc *appds.Service, queriesSvc *appq.Service) http.Handler {
	r := &Router{datasetsSvc: datasetsSvc, queriesSvc: queriesSvc}
	mux := chi.NewRouter()

	mux.Get("/", func(w http.ResponseWriter, req *http.Request) {
		page, err := staticFS.ReadFile("static/index.html")
		if err != nil {
			http.Error(w, "dashboard unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	})

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/datasets", r.wrap(r.handleUpload))
		rt.Post("/datasets/batch", r.wrap(r.handleUploadBatch))
		rt.Post("/datasets/sync", r.wrap(r.handleSync))
		rt.Get("/datasets", r.wrap(r.handleList))
		rt.Get("/datasets/{id}", r.wrap(r.handleGet))
		rt.Delete("/datasets/{id}", r.wrap(r.handleRemove))
		rt.Post("/ask", r.wrap(r.handleAsk))
		rt.Get("/queries/latest", r.wrap(r.handleLatestQueries))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			http.Error(w, err.Error(), statusFor(err))
		}
	}
}

// statusFor maps the error taxonomy onto HTTP statuses: user mistakes are
// 4xx, model trouble is 429/502, generated-code trouble is 422.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domds.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domds.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domds.ErrInvalidJSON),
		errors.Is(err, domds.ErrEmptyPayload),
		errors.Is(err, domq.ErrEmptyQuestion):
		return http.StatusBadRequest
	case errors.Is(err, domai.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, domai.ErrModelUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, domq.ErrCodeRejected),
		errors.Is(err, domq.ErrExecFailed),
		errors.Is(err, domq.ErrNoResult),
		errors.Is(err, domq.ErrTimeout):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// datasetView is the API shape for a dataset; raw content never leaves the
// server, only the digest does.
type datasetView struct {
	ID       domds.DatasetID `json:"id"`
	Name     string          `json:"name"`
	Origin   domds.Origin    `json:"origin"`
	LoadedAt string          `json:"loaded_at"`
	Bytes    int64           `json:"bytes"`
	Summary  *domds.Summary  `json:"summary,omitempty"`
}

func viewOf(d *domds.Dataset, withSummary bool) datasetView {
	v := datasetView{
		ID:       d.ID,
		Name:     d.Name,
		Origin:   d.Origin,
		LoadedAt: d.LoadedAt.Format("2006-01-02T15:04:05Z07:00"),
		Bytes:    d.Bytes,
	}
	if withSummary {
		sum := domds.Summarize(d)
		v.Summary = &sum
	}
	return v
}

// POST /v1/datasets
// multipart: "file" part + optional "schema" part, or a raw JSON body with ?name=
func (r *Router) handleUpload(w http.ResponseWriter, req *http.Request) error {
	name := req.URL.Query().Get("name")
	var d *domds.Dataset
	var err error

	if strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data") {
		if err := req.ParseMultipartForm(32 << 20); err != nil {
			return fmt.Errorf("%w: %v", domds.ErrInvalidJSON, err)
		}
		file, header, ferr := req.FormFile("file")
		if ferr != nil {
			return fmt.Errorf("%w: missing file part", domds.ErrEmptyPayload)
		}
		defer file.Close()
		if name == "" {
			name = header.Filename
		}
		if verr := middleware.ValidateDatasetName(name); verr != nil {
			return fmt.Errorf("%w: %v", domds.ErrInvalidJSON, verr)
		}

		if schema, _, serr := req.FormFile("schema"); serr == nil {
			defer schema.Close()
			d, err = r.datasetsSvc.Upload(req.Context(), name, file, schema)
		} else {
			d, err = r.datasetsSvc.Upload(req.Context(), name, file, nil)
		}
	} else {
		if name == "" {
			name = "upload.json"
		}
		if verr := middleware.ValidateDatasetName(name); verr != nil {
			return fmt.Errorf("%w: %v", domds.ErrInvalidJSON, verr)
		}
		d, err = r.datasetsSvc.Upload(req.Context(), name, req.Body, nil)
	}
	if err != nil {
		return err
	}

	middleware.IncrementDatasets()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(viewOf(d, true))
}

// POST /v1/datasets/batch — multipart with repeated "files" parts
func (r *Router) handleUploadBatch(w http.ResponseWriter, req *http.Request) error {
	if err := req.ParseMultipartForm(64 << 20); err != nil {
		return fmt.Errorf("%w: %v", domds.ErrInvalidJSON, err)
	}
	if req.MultipartForm == nil || len(req.MultipartForm.File["files"]) == 0 {
		return fmt.Errorf("%w: no files", domds.ErrEmptyPayload)
	}

	var files []appds.NamedReader
	var closers []interface{ Close() error }
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()
	for _, header := range req.MultipartForm.File["files"] {
		f, err := header.Open()
		if err != nil {
			continue
		}
		closers = append(closers, f)
		files = append(files, appds.NamedReader{Name: header.Filename, Reader: f})
	}

	statuses := r.datasetsSvc.UploadBatch(req.Context(), files)
	accepted := 0
	for _, st := range statuses {
		if st.Error == "" {
			accepted++
		}
	}
	middleware.AddDatasets(accepted)

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(statuses)
}

// POST /v1/datasets/sync — re-run configured sources (directory scan, bucket)
func (r *Router) handleSync(w http.ResponseWriter, req *http.Request) error {
	n, err := r.datasetsSvc.Sync(req.Context())
	if err != nil {
		return err
	}
	middleware.AddDatasets(n)

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{"registered": n})
}

// GET /v1/datasets
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	list := r.datasetsSvc.List(req.Context())
	views := make([]datasetView, 0, len(list))
	for _, d := range list {
		views = append(views, viewOf(d, false))
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(views)
}

// GET /v1/datasets/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	d, err := r.datasetsSvc.Get(req.Context(), domds.DatasetID(id))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(viewOf(d, true))
}

// DELETE /v1/datasets/{id}
func (r *Router) handleRemove(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := r.datasetsSvc.Remove(req.Context(), domds.DatasetID(id)); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// POST /v1/ask
// Body: {"dataset_id": "...", "question": "..."}
func (r *Router) handleAsk(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		DatasetID string `json:"dataset_id"`
		Question  string `json:"question"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", domds.ErrInvalidJSON, err)
	}
	if err := middleware.ValidateQuestion(body.Question); err != nil {
		return fmt.Errorf("%w: %v", domq.ErrEmptyQuestion, err)
	}

	middleware.IncrementQueries()
	q, err := r.queriesSvc.Ask(req.Context(), appq.AskCommand{
		DatasetID: domds.DatasetID(body.DatasetID),
		Question:  body.Question,
	})
	if err != nil {
		middleware.IncrementQueriesFailed()
		// the query record carries the generated code, which the dashboard
		// shows next to the failure
		if q != nil && q.Code != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(statusFor(err))
			return json.NewEncoder(w).Encode(q)
		}
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(q)
}

// GET /v1/queries/latest?limit=20
func (r *Router) handleLatestQueries(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	limit = middleware.ValidateLimit(limit)

	list := r.queriesSvc.Latest(req.Context(), limit)

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}
