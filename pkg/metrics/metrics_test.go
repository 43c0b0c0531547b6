package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/m-mizutani/sitedrop/pkg/metrics"
)

func TestCollector_RecordOutcome(t *testing.T) {
	c := metrics.NewCollector()
	c.RecordOutcome(metrics.OutcomeSuccess)
	c.RecordOutcome(metrics.OutcomeSuccess)
	c.RecordOutcome(metrics.OutcomeConflict)

	expected := `
# HELP sitedrop_deploys_total Total number of deploy requests by outcome
# TYPE sitedrop_deploys_total counter
sitedrop_deploys_total{outcome="conflict"} 1
sitedrop_deploys_total{outcome="success"} 2
`
	gt.NoError(t, testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected), "sitedrop_deploys_total"))
}

func TestCollector_Handler(t *testing.T) {
	c := metrics.NewCollector()
	c.RecordStage(metrics.StageCreateSite, 120*time.Millisecond, nil)
	c.RecordStage(metrics.StageDeploy, time.Second, errors.New("boom"))
	c.RecordArchive(2048)
	c.RecordUpload(3)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, req)

	gt.Number(t, w.Code).Equal(http.StatusOK)
	body, err := io.ReadAll(w.Body)
	gt.NoError(t, err)
	gt.String(t, string(body)).Contains(`sitedrop_deploy_stage_duration_seconds_count{stage="create_site",status="ok"} 1`)
	gt.String(t, string(body)).Contains(`sitedrop_deploy_stage_duration_seconds_count{stage="deploy",status="error"} 1`)
	gt.String(t, string(body)).Contains("sitedrop_archive_size_bytes_count 1")
	gt.String(t, string(body)).Contains("sitedrop_upload_files_sum 3")
}

func TestCollector_Nil(t *testing.T) {
	var c *metrics.Collector
	c.RecordOutcome(metrics.OutcomeFailure)
	c.RecordStage(metrics.StageBuildArchive, time.Millisecond, nil)
	c.RecordArchive(1)
	c.RecordUpload(1)
}
