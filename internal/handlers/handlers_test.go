package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/PratikDhanave/lightscan-service/internal/ingest"
	"github.com/PratikDhanave/lightscan-service/internal/models"
	"github.com/PratikDhanave/lightscan-service/internal/store"
	"github.com/PratikDhanave/lightscan-service/pkg/logger"
)

var fixedNow = time.Date(2024, 1, 16, 16, 0, 0, 0, time.UTC)

// brokenStore fails every list call.
type brokenStore struct {
	*store.MemoryStore
}

func (brokenStore) ListScans(context.Context) ([]models.Scan, error) {
	return nil, errors.New("connection reset")
}

func (brokenStore) ListLights(context.Context) ([]models.Light, error) {
	return nil, errors.New("connection reset")
}

// readOnlyStore resolves lights but refuses to write scans.
type readOnlyStore struct {
	*store.MemoryStore
}

func (readOnlyStore) AddScan(context.Context, models.NewScan) (string, error) {
	return "", errors.New("pq: cannot execute INSERT in a read-only transaction")
}

func newTestRouter(st store.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	d := Deps{
		Store:    st,
		Ingest:   ingest.NewService(st, ingest.WithClock(func() time.Time { return fixedNow })),
		Log:      logger.Nop(),
		Now:      func() time.Time { return fixedNow },
		Location: time.UTC,
	}
	r := gin.New()
	RegisterScanRoutes(r, r, d)
	RegisterLightRoutes(r, r, d)
	RegisterAnalyticsRoutes(r, d)
	return r
}

func request(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}

func TestScanRoutes(t *testing.T) {
	Convey("Given a store with one light", t, func() {
		st := store.NewMemoryStore()
		lightID, err := st.AddLight(context.Background(), "LGT-1A2B3C", "Red Light")
		So(err, ShouldBeNil)
		r := newTestRouter(st)

		Convey("A valid scan is stored against the resolved light", func() {
			w := request(r, http.MethodPost, "/api/scans",
				`{"lightId":"LGT-1A2B3C","date":["2024-01-15T10:30:00Z"],"latency":120,"error":false}`)
			So(w.Code, ShouldEqual, http.StatusCreated)
			body := decodeBody(w)
			So(body["success"], ShouldEqual, true)
			So(body["message"], ShouldEqual, "Scan added successfully")
			So(body["scanId"], ShouldNotBeBlank)

			scans, _ := st.ListScansForLight(context.Background(), lightID)
			So(len(scans), ShouldEqual, 1)
			So(scans[0].ID, ShouldEqual, body["scanId"])
			So(scans[0].Latency, ShouldEqual, 120.0)
		})

		Convey("An omitted date defaults to now", func() {
			w := request(r, http.MethodPost, "/api/scans", `{"lightId":"LGT-1A2B3C","latency":0,"error":false}`)
			So(w.Code, ShouldEqual, http.StatusCreated)

			scans, _ := st.ListScans(context.Background())
			So(len(scans), ShouldEqual, 1)
			So([]string(scans[0].Date), ShouldResemble, []string{"2024-01-16T16:00:00.000Z"})
			So(scans[0].Latency, ShouldEqual, 0.0)
			So(scans[0].Error, ShouldBeFalse)
		})

		Convey("Validation failures are 400 with the first failing check", func() {
			cases := []struct {
				body, msg string
			}{
				{`{}`, ingest.MsgLightIDRequired},
				{`{"lightId":""}`, ingest.MsgLightIDRequired},
				{`{"lightId":"LGT-1A2B3C","date":"2024-01-15"}`, ingest.MsgDateType},
				{`{"lightId":"LGT-1A2B3C","latency":"fast","error":false}`, ingest.MsgLatencyType},
				{`{"lightId":"LGT-1A2B3C","latency":5,"error":"no"}`, ingest.MsgErrorType},
				{`{"date":1,"latency":"x"}`, ingest.MsgLightIDRequired},
				{`not json`, ingest.MsgInvalidPayload},
			}
			for _, tc := range cases {
				w := request(r, http.MethodPost, "/api/scans", tc.body)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeBody(w)["error"], ShouldEqual, tc.msg)
			}
			scans, _ := st.ListScans(context.Background())
			So(scans, ShouldBeEmpty)
		})

		Convey("An unknown lightId is 404 and nothing is written", func() {
			w := request(r, http.MethodPost, "/api/scans", `{"lightId":"LGT-NOPE","latency":1,"error":false}`)
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decodeBody(w)["error"], ShouldEqual, `Light with lightId "LGT-NOPE" not found`)
			scans, _ := st.ListScans(context.Background())
			So(scans, ShouldBeEmpty)
		})

		Convey("GET lists every scan", func() {
			request(r, http.MethodPost, "/api/scans", `{"lightId":"LGT-1A2B3C","latency":10,"error":false}`)
			request(r, http.MethodPost, "/api/scans", `{"lightId":"LGT-1A2B3C","latency":20,"error":true}`)

			w := request(r, http.MethodGet, "/api/scans", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var body struct {
				Success bool          `json:"success"`
				Scans   []models.Scan `json:"scans"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body.Success, ShouldBeTrue)
			So(len(body.Scans), ShouldEqual, 2)
			So(body.Scans[1].Error, ShouldBeTrue)
		})
	})

	Convey("Store failures surface as an opaque 500", t, func() {
		r := newTestRouter(brokenStore{store.NewMemoryStore()})
		w := request(r, http.MethodGet, "/api/scans", "")
		So(w.Code, ShouldEqual, http.StatusInternalServerError)
		So(decodeBody(w)["error"], ShouldEqual, "Internal server error")
	})

	Convey("A failed insert is an opaque 500", t, func() {
		st := readOnlyStore{store.NewMemoryStore()}
		_, err := st.AddLight(context.Background(), "LGT-RO", "Read only")
		So(err, ShouldBeNil)
		r := newTestRouter(st)

		w := request(r, http.MethodPost, "/api/scans", `{"lightId":"LGT-RO","latency":5,"error":false}`)
		So(w.Code, ShouldEqual, http.StatusInternalServerError)
		So(decodeBody(w), ShouldResemble, map[string]any{"error": "Internal server error"})
		So(w.Body.String(), ShouldNotContainSubstring, "read-only")
		So(w.Body.String(), ShouldNotContainSubstring, "INSERT")
	})
}

func TestLightRoutes(t *testing.T) {
	Convey("Given an empty store", t, func() {
		st := store.NewMemoryStore()
		r := newTestRouter(st)

		Convey("POST with explicit fields creates the light", func() {
			w := request(r, http.MethodPost, "/api/lights", `{"lightId":"LGT-AAAAAA","name":"Green Light"}`)
			So(w.Code, ShouldEqual, http.StatusCreated)
			id, _ := decodeBody(w)["id"].(string)
			So(id, ShouldNotBeBlank)

			w = request(r, http.MethodGet, "/api/lights/"+id, "")
			So(w.Code, ShouldEqual, http.StatusOK)
			light, _ := decodeBody(w)["light"].(map[string]any)
			So(light["lightId"], ShouldEqual, "LGT-AAAAAA")
			So(light["name"], ShouldEqual, "Green Light")
		})

		Convey("POST with no body generates lightId and name", func() {
			request(r, http.MethodPost, "/api/lights", `{"name":"first"}`)
			w := request(r, http.MethodPost, "/api/lights", "")
			So(w.Code, ShouldEqual, http.StatusCreated)
			body := decodeBody(w)
			So(body["name"], ShouldEqual, "Light 2")
			lightID, _ := body["lightId"].(string)
			So(lightID, ShouldStartWith, "LGT-")
			So(len(lightID), ShouldEqual, 10)
		})

		Convey("Malformed JSON is rejected", func() {
			w := request(r, http.MethodPost, "/api/lights", `{"name":`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Unknown ids are 404", func() {
			w := request(r, http.MethodGet, "/api/lights/00000000-0000-0000-0000-000000000000", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decodeBody(w)["error"], ShouldEqual, "light not found")

			w = request(r, http.MethodDelete, "/api/lights/nope", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("DELETE removes the light but keeps its scans", func() {
			ctx := context.Background()
			id, _ := st.AddLight(ctx, "LGT-DEL", "Doomed")
			_, _ = st.AddScan(ctx, models.NewScan{LightID: id, Date: []string{"2024-01-15T10:00:00Z"}})

			w := request(r, http.MethodDelete, "/api/lights/"+id, "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decodeBody(w)["success"], ShouldEqual, true)

			So(request(r, http.MethodGet, "/api/lights/"+id, "").Code, ShouldEqual, http.StatusNotFound)

			w = request(r, http.MethodGet, "/api/lights/"+id+"/scans", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			scans, _ := decodeBody(w)["scans"].([]any)
			So(len(scans), ShouldEqual, 1)
		})

		Convey("GET /api/lights lists in insertion order", func() {
			request(r, http.MethodPost, "/api/lights", `{"lightId":"LGT-1","name":"one"}`)
			request(r, http.MethodPost, "/api/lights", `{"lightId":"LGT-2","name":"two"}`)
			w := request(r, http.MethodGet, "/api/lights", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			lights, _ := decodeBody(w)["lights"].([]any)
			So(len(lights), ShouldEqual, 2)
			So(lights[0].(map[string]any)["lightId"], ShouldEqual, "LGT-1")
		})
	})
}

func TestAnalyticsRoutes(t *testing.T) {
	Convey("Given the sample data", t, func() {
		st := store.NewMemoryStore()
		res, err := store.Seed(context.Background(), st)
		So(err, ShouldBeNil)
		So(res.LightsCreated, ShouldEqual, 3)
		r := newTestRouter(st)

		Convey("The dashboard aggregates every light and scan", func() {
			w := request(r, http.MethodGet, "/api/analytics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var body struct {
				Summary struct {
					LightCount int `json:"lightCount"`
					TotalScans int `json:"totalScans"`
				} `json:"summary"`
				ScansPerHour []any `json:"scansPerHour"`
				Outcomes     []struct {
					Name  string `json:"name"`
					Value int    `json:"value"`
				} `json:"outcomes"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body.Summary.LightCount, ShouldEqual, 3)
			So(body.Summary.TotalScans, ShouldEqual, 5)
			So(len(body.ScansPerHour), ShouldEqual, 24)
			So(len(body.Outcomes), ShouldEqual, 2)
			So(body.Outcomes[0].Value+body.Outcomes[1].Value, ShouldEqual, 5)
		})

		Convey("Per-light rows carry a colour and scan count", func() {
			w := request(r, http.MethodGet, "/api/analytics/lights", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var body struct {
				Success bool `json:"success"`
				Lights  []struct {
					LightID   string `json:"lightId"`
					Color     string `json:"color"`
					ScanCount int    `json:"scanCount"`
				} `json:"lights"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body.Success, ShouldBeTrue)
			So(len(body.Lights), ShouldEqual, 3)
			So(body.Lights[0].LightID, ShouldEqual, "LGT-1A2B3C")
			So(body.Lights[0].ScanCount, ShouldEqual, 2)
			So(body.Lights[0].Color, ShouldEqual, "blue")
		})
	})

	Convey("Store failures surface as an opaque 500", t, func() {
		r := newTestRouter(brokenStore{store.NewMemoryStore()})
		So(request(r, http.MethodGet, "/api/analytics", "").Code, ShouldEqual, http.StatusInternalServerError)
	})
}
