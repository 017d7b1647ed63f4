package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/lookup"
	"github.com/san-kum/world3/internal/server"
	"github.com/san-kum/world3/internal/sim"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func do(ts *httptest.Server, method, path string, body any) *http.Response {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, ts.URL+path, r)
	Expect(err).NotTo(HaveOccurred())
	resp, err := ts.Client().Do(req)
	Expect(err).NotTo(HaveOccurred())
	return resp
}

func decode(resp *http.Response, v any) {
	defer resp.Body.Close()
	Expect(json.NewDecoder(resp.Body).Decode(v)).To(Succeed())
}

var _ = Describe("HTTP API", func() {
	var ts *httptest.Server

	BeforeEach(func() {
		ts = httptest.NewServer(server.New(lookup.MustLoad(), quiet).Handler())
		DeferCleanup(ts.Close)
	})

	It("reports health", func() {
		resp := do(ts, http.MethodGet, "/api/v1/health", nil)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		var body map[string]string
		decode(resp, &body)
		Expect(body).To(HaveKeyWithValue("status", "ok"))
	})

	It("serves the parameter schema", func() {
		resp := do(ts, http.MethodGet, "/api/v1/params/schema", nil)
		var schema []config.Descriptor
		decode(resp, &schema)
		Expect(schema).To(HaveLen(len(config.Descriptors())))
		Expect(schema[0].Field).NotTo(BeEmpty())
	})

	It("lists the presets", func() {
		var presets []server.ScenarioSummary
		decode(do(ts, http.MethodGet, "/api/v1/presets", nil), &presets)
		ids := make([]string, len(presets))
		for i, p := range presets {
			ids[i] = p.ID
			Expect(p.IsPreset).To(BeTrue())
		}
		Expect(ids).To(Equal([]string{"bau", "stabilized", "technology"}))
	})

	It("refuses to delete a preset", func() {
		resp := do(ts, http.MethodDelete, "/api/v1/scenarios/bau", nil)
		Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
	})

	It("returns 404 for unknown scenarios", func() {
		Expect(do(ts, http.MethodGet, "/api/v1/scenarios/nope", nil).StatusCode).To(Equal(http.StatusNotFound))
		Expect(do(ts, http.MethodPost, "/api/v1/scenarios/nope/run", nil).StatusCode).To(Equal(http.StatusNotFound))
	})

	Context("with a user scenario", func() {
		BeforeEach(func() {
			resp := do(ts, http.MethodPost, "/api/v1/scenarios", map[string]any{
				"meta":     map[string]string{"id": "mine", "name": "Mine"},
				"end_year": 1950,
			})
			Expect(resp.StatusCode).To(Equal(http.StatusCreated))
			resp.Body.Close()
		})

		It("shows it alongside the presets", func() {
			var all []server.ScenarioSummary
			decode(do(ts, http.MethodGet, "/api/v1/scenarios", nil), &all)
			Expect(all).To(HaveLen(4))
			Expect(all).To(ContainElement(HaveField("ID", "mine")))
		})

		It("runs it and caches the output", func() {
			resp := do(ts, http.MethodPost, "/api/v1/scenarios/mine/run", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			var out sim.Output
			decode(resp, &out)
			Expect(out.States).To(HaveLen(51))
			Expect(out.Timeline[50]).To(Equal(1950.0))

			var sc server.Scenario
			decode(do(ts, http.MethodGet, "/api/v1/scenarios/mine", nil), &sc)
			Expect(sc.LastOutput).NotTo(BeNil())
		})

		It("updates params and clears the cached output", func() {
			do(ts, http.MethodPost, "/api/v1/scenarios/mine/run", nil).Body.Close()

			resp := do(ts, http.MethodPut, "/api/v1/scenarios/mine/params", map[string]any{"pollution_control": 0.5})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			var sc server.Scenario
			decode(resp, &sc)
			Expect(sc.Params.PollutionControl).To(Equal(0.5))
			Expect(sc.Params.EndYear).To(Equal(1950.0))
			Expect(sc.LastOutput).To(BeNil())
		})

		It("can be deleted", func() {
			Expect(do(ts, http.MethodDelete, "/api/v1/scenarios/mine", nil).StatusCode).To(Equal(http.StatusOK))
			Expect(do(ts, http.MethodGet, "/api/v1/scenarios/mine", nil).StatusCode).To(Equal(http.StatusNotFound))
		})
	})

	It("rejects scenarios without an id", func() {
		resp := do(ts, http.MethodPost, "/api/v1/scenarios", map[string]any{"end_year": 1950})
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("reports a diverging run as unprocessable", func() {
		resp := do(ts, http.MethodPost, "/api/v1/scenarios", map[string]any{
			"meta":                         map[string]string{"id": "boom"},
			"industrial_depreciation_rate": -0.5,
		})
		resp.Body.Close()

		resp = do(ts, http.MethodPost, "/api/v1/scenarios/boom/run", nil)
		Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))
		var body map[string]string
		decode(resp, &body)
		Expect(body["error"]).To(ContainSubstring("diverged"))
	})
})
