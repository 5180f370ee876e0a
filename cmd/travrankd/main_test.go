package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/travrank/internal/config"
	"github.com/okian/travrank/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestDaemonWiring(t *testing.T) {
	convey.Convey("Given a configuration pointing at reference files", t, func() {
		dir := t.TempDir()
		drivers := filepath.Join(dir, "drivers.json")
		convey.So(os.WriteFile(drivers, []byte(`[{"name": "Björn Goop", "rating": 4}]`), 0o600), convey.ShouldBeNil)

		cfg := config.New()
		cfg.DriversFile = drivers
		cfg.TracksFile = filepath.Join(dir, "missing-tracks.json")
		cfg.HorsesFile = ""

		ctx := context.Background()
		svc := newService(cfg, logger.Discard())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		srv := newHTTPServer(ctx, cfg, svc)

		convey.Convey("Then the server carries the configured address and timeouts", func() {
			convey.So(srv.Addr, convey.ShouldEqual, ":9080")
			convey.So(srv.ReadHeaderTimeout, convey.ShouldEqual, readHeaderTimeout)
		})

		convey.Convey("Then the API and OpenAPI routes are served", func() {
			for _, path := range []string{"/drivers", "/stats", "/healthz", "/openapi.yaml"} {
				w := httptest.NewRecorder()
				srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("Then reference drivers were loaded from disk", func() {
			w := httptest.NewRecorder()
			srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/drivers", http.NoBody))
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "Björn Goop")
		})

		convey.Convey("Then analysis works end to end", func() {
			body := `{"id": "V64_2025-12-01_5_3", "races": [{"number": 1, "starts": [{"number": 1, "horse": {"name": "H"}, "driver": {"name": "björn goop"}}]}]}`
			w := httptest.NewRecorder()
			srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/analyze?game_type=V64", strings.NewReader(body)))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"date":"2025-12-01"`)
			// rating 4 at post 1: 0.5*8 + 0.1*10
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"score":5`)
		})
	})
}
