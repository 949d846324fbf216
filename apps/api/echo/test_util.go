package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/mentora/backend/core"
	"github.com/mentora/backend/core/grade"
	"github.com/mentora/backend/core/lesson"
	"github.com/mentora/backend/core/plan"
	"github.com/mentora/backend/core/schedule"
	"github.com/mentora/backend/core/selection"
	inmemdb "github.com/mentora/backend/storage/database/inmem"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

// testLogger keeps server errors visible in test output without Rollbar.
type testLogger struct {
	t *testing.T
}

func (l testLogger) Enable(bool)                           {}
func (l testLogger) Debug(msg string, args ...interface{}) {}
func (l testLogger) Info(msg string, args ...interface{})  {}
func (l testLogger) Warn(msg string, args ...interface{})  { l.t.Logf("WARN: %s %v", msg, args) }
func (l testLogger) Error(msg string, args ...interface{}) { l.t.Logf("ERROR: %s %v", msg, args) }
func (l testLogger) Fatal(msg string, args ...interface{}) { l.t.Fatalf("FATAL: %s %v", msg, args) }

func newTestConfig() *core.Config {
	return &core.Config{
		TestMode:  true,
		AppName:   "Mentora",
		SecretKey: "secret",
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
}

type testEnv struct {
	conf   *core.Config
	server Server
	db     *inmemdb.DB
}

func setup(t *testing.T) *testEnv {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}

	slotSvc := schedule.NewService(inmemdb.NewScheduleRepository(db), nil)
	planSvc := plan.NewService(inmemdb.NewPlanRepository(db), slotSvc)
	slotSvc.SetAttendanceMarker(planSvc)
	gradeSvc := grade.NewService(inmemdb.NewGradeRepository(db))
	lessonSvc := lesson.NewService(inmemdb.NewLessonRepository(db))
	selectionSvc := selection.NewService(inmemdb.NewSelectionRepository(db), slotSvc)

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	conf := newTestConfig()
	server := NewServer(ServerDeps{
		Conf:         conf,
		Logger:       testLogger{t: t},
		SlotSvc:      slotSvc,
		PlanSvc:      planSvc,
		GradeSvc:     gradeSvc,
		LessonSvc:    lessonSvc,
		SelectionSvc: selectionSvc,
		Validate:     validate,
		Translator:   translator,
	})
	return &testEnv{conf: conf, server: server, db: db}
}

func getToken(t *testing.T, conf *core.Config, actor core.Actor, mentor, admin bool) string {
	claims := GetActorClaims(conf, actor, mentor, admin)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func mentorToken(t *testing.T, env *testEnv) string {
	return getToken(t, env.conf, core.Actor{ID: "11111111-1111-1111-1111-111111111111", Name: "Mentor"}, true, false)
}

func adminToken(t *testing.T, env *testEnv) string {
	return getToken(t, env.conf, core.Actor{ID: "22222222-2222-2222-2222-222222222222", Name: "Admin"}, true, true)
}

func studentToken(t *testing.T, env *testEnv) string {
	return getToken(t, env.conf, core.Actor{ID: "33333333-3333-3333-3333-333333333333", Name: "Student"}, false, false)
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("decodeBody() failed: %v; body: %s", err, rec.Body.String())
	}
}
