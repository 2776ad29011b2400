package httpserver

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/pokemon-reviews/internal/config"
	"github.com/Clark-Hu/pokemon-reviews/internal/metrics"
)

func newBareServer(authToken string) *Server {
	return &Server{
		cfg:      config.Config{AuthToken: authToken},
		logger:   zerolog.Nop(),
		validate: newValidator(),
		router:   chi.NewRouter(),
	}
}

func TestSameName(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Pikachu", "pikachu", true},
		{"  Pikachu ", "PIKACHU", true},
		{"Straße", "STRASSE", true},
		{"Pikachu", "Raichu", false},
		{"", "   ", true},
		{"Ash Ketchum", "AshKetchum", false},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, sameName(tt.a, tt.b), "sameName(%q, %q)", tt.a, tt.b)
	}
}

func TestVerifyBearer(t *testing.T) {
	s := newBareServer("secret")

	assert.True(t, s.verifyBearer("Bearer secret"))
	assert.True(t, s.verifyBearer("Bearer   secret  "))
	assert.False(t, s.verifyBearer(""))
	assert.False(t, s.verifyBearer("Bearer"))
	assert.False(t, s.verifyBearer("bearer secret"))
	assert.False(t, s.verifyBearer("Basic secret"))
	assert.False(t, s.verifyBearer("Bearer other"))
}

func TestParseID(t *testing.T) {
	id, err := parseID(" 42 ")
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	for _, raw := range []string{"", "0", "-3", "abc", "1.5", "99999999999999999999"} {
		_, err := parseID(raw)
		assert.Errorf(t, err, "parseID(%q)", raw)
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(1996, time.February, 27, 0, 0, 0, 0, time.UTC)

	got, err := parseDate("1996-02-27")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	got, err = parseDate("1996-02-27T13:45:00Z")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	_, err = parseDate("27/02/1996")
	assert.Error(t, err)
}

func TestQueryRef(t *testing.T) {
	s := newBareServer("")

	tests := []struct {
		query  string
		want   int64
		wantOK bool
	}{
		{"", 0, true},
		{"ownerId=", 0, true},
		{"ownerId=7", 7, true},
		{"ownerId=%207%20", 7, true},
		{"ownerId=0", 0, true},
		{"ownerId=-3", -3, true},
		{"ownerId=ash", 0, false},
		{"ownerId=1.5", 0, false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/api/pokemon?"+tt.query, nil)
		rec := httptest.NewRecorder()
		id, ok := s.queryRef(rec, req, "ownerId")
		assert.Equalf(t, tt.wantOK, ok, "query %q", tt.query)
		assert.Equalf(t, tt.want, id, "query %q", tt.query)
		if !ok {
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		}
	}
}

func TestDecodeRequestErrors(t *testing.T) {
	s := newBareServer("")

	tests := []struct {
		name     string
		body     string
		wantCode string
		status   int
	}{
		{"empty", "", "BAD_REQUEST", http.StatusBadRequest},
		{"syntax", `{"name":}`, "BAD_REQUEST", http.StatusBadRequest},
		{"truncated", `{"name":"x"`, "BAD_REQUEST", http.StatusBadRequest},
		{"wrong type", `{"name":7}`, "BAD_REQUEST", http.StatusBadRequest},
		{"unknown field", `{"name":"x","extra":1}`, "BAD_REQUEST", http.StatusBadRequest},
		{"blank", `{"name":"  "}`, "VALIDATION_ERROR", http.StatusBadRequest},
		{"too long", `{"name":"` + strings.Repeat("a", 201) + `"}`, "VALIDATION_ERROR", http.StatusBadRequest},
		{"too large", `{"name":"` + strings.Repeat("a", maxRequestBody) + `"}`, "PAYLOAD_TOO_LARGE", http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(tt.body)))
			rec := httptest.NewRecorder()

			var dst categoryRequest
			assert.False(t, s.decodeRequest(rec, req, &dst))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.wantCode, decode[errorResponse](t, rec).Code)
		})
	}
}

func TestValidationErrorNamesJSONFields(t *testing.T) {
	s := newBareServer("")
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"firstName":"Ash","lastName":""}`))
	rec := httptest.NewRecorder()

	var dst ownerRequest
	require.False(t, s.decodeRequest(rec, req, &dst))
	assert.JSONEq(t,
		`{"code":"VALIDATION_ERROR","message":"Request body failed validation","details":[{"field":"lastName","rule":"notblank"}]}`,
		rec.Body.String())
}

func TestRequireWriteAuth(t *testing.T) {
	s := newBareServer("secret")
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	h := s.requireWriteAuth(ok)

	tests := []struct {
		method string
		auth   string
		want   int
	}{
		{http.MethodGet, "", http.StatusTeapot},
		{http.MethodPost, "", http.StatusUnauthorized},
		{http.MethodPut, "Bearer nope", http.StatusUnauthorized},
		{http.MethodDelete, "Bearer secret", http.StatusTeapot},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, "/api/categories", nil)
		if tt.auth != "" {
			req.Header.Set("Authorization", tt.auth)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equalf(t, tt.want, rec.Code, "%s with %q", tt.method, tt.auth)
	}

	open := newBareServer("").requireWriteAuth(ok)
	rec := httptest.NewRecorder()
	open.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/categories", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestInstrumentCountsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := newBareServer("")
	s.metrics = metrics.New(reg)
	s.router.Use(s.instrument)
	s.router.Get("/api/categories/{categoryID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/api/categories/1", "/api/categories/2", "/nowhere"} {
		s.router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(s.metrics.Requests.WithLabelValues("/api/categories/{categoryID}", http.MethodGet, "4xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.Requests.WithLabelValues("unmatched", http.MethodGet, "4xx")))
}

func TestWithRequestIDTagsLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	h := middleware.RequestID(hlog.NewHandler(logger)(withRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hlog.FromRequest(r).Info().Msg("handled")
	}))))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
}

func TestMapSliceNeverNil(t *testing.T) {
	out := mapSlice[int, int](nil, func(v int) int { return v })
	require.NotNil(t, out)
	assert.Empty(t, out)
}
