package console

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/panyam/caresim/core"
	"github.com/panyam/caresim/export"
	"github.com/panyam/caresim/runtime"
	"github.com/panyam/caresim/viz"
)

// SimulationRequest is the JSON body of the simulate and save endpoints.
// When Intervention is set it overrides Parameters.InterventionCapacityPerPeriod.
type SimulationRequest struct {
	Label        string             `json:"label,omitempty"`
	Parameters   core.Parameters    `json:"parameters"`
	Intervention *core.Intervention `json:"intervention,omitempty"`
}

func (req SimulationRequest) run(sim *runtime.Simulator) (runtime.Comparison, error) {
	p := req.Parameters
	if req.Intervention != nil {
		var err error
		if p, err = p.WithIntervention(*req.Intervention); err != nil {
			return runtime.Comparison{}, err
		}
	}
	return sim.Run(p)
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Simulate runs a comparison without saving it.
func (s *Server) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	c, err := req.run(s.simulator)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// SaveComparison runs a comparison and adds it to the session workspace.
func (s *Server) SaveComparison(w http.ResponseWriter, r *http.Request) {
	var req SimulationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	c, err := req.run(s.simulator)
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := s.workspace(r).Add(req.Label, c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) ListComparisons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Summaries(s.workspace(r).List()))
}

func (s *Server) GetComparison(w http.ResponseWriter, r *http.Request) {
	rec, err := s.workspace(r).Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) RemoveComparison(w http.ResponseWriter, r *http.Request) {
	if err := s.workspace(r).Remove(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) ToggleComparison(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	visible, err := s.workspace(r).ToggleVisibility(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "visible": visible})
}

func (s *Server) ComparisonChart(w http.ResponseWriter, r *http.Request) {
	which, err := ParseChartSeries(r.URL.Query().Get("series"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	rec, err := s.workspace(r).Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	svg, err := RenderChart(s.plotter, rec, which)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSVG(w, svg)
}

func (s *Server) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	rec, err := s.workspace(r).Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	// Buffer so a failed build can still report a proper error status.
	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, rec.Comparison, nil); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", attachment(rec, "xlsx"))
	buf.WriteTo(w)
}

func (s *Server) ExportCSV(w http.ResponseWriter, r *http.Request) {
	rec, err := s.workspace(r).Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, rec.Comparison); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", attachment(rec, "csv"))
	buf.WriteTo(w)
}

func attachment(rec SavedComparison, ext string) string {
	return fmt.Sprintf(`attachment; filename="caresim-%s.%s"`, rec.ID, ext)
}

func (s *Server) Overlays(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.workspace(r).Overlays(s.window))
}

// OverlayChart renders one overlay dataset (occupancy, wait or kpis) as SVG.
func (s *Server) OverlayChart(w http.ResponseWriter, r *http.Request) {
	set := s.workspace(r).Overlays(s.window)
	var svg string
	var err error
	switch chart := mux.Vars(r)["chart"]; chart {
	case "occupancy":
		svg, err = s.plotter.Generate(dataSeries(set.Occupancy), viz.PlotMetadata{Title: "Queue length", XLabel: "Period", YLabel: "Patients waiting"})
	case "wait":
		svg, err = s.plotter.Generate(dataSeries(set.WaitTimes), viz.PlotMetadata{Title: "Estimated wait", XLabel: "Period", YLabel: "Wait"})
	case "kpis":
		svg, err = s.plotter.GenerateBars(set.KPIs.Categories, set.KPIs.Datasets, viz.PlotMetadata{Title: "Key indicators"})
	default:
		err = fmt.Errorf("%w: unknown overlay chart %q", errBadRequest, chart)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeSVG(w, svg)
}

func dataSeries(series []Series) []viz.DataSeries {
	out := make([]viz.DataSeries, len(series))
	for i, s := range series {
		out[i] = s.DataSeries
	}
	return out
}

func writeSVG(w http.ResponseWriter, svg string) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(svg))
}

func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	// Touch the workspace so the session cookie is issued with the page.
	s.workspace(r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(strings.TrimSpace(indexHTML)))
}

const indexHTML = `
<!doctype html>
<html>
<head><meta charset="utf-8"><title>caresim</title></head>
<body>
  <h1>caresim</h1>
  <p>POST parameters to <code>/api/comparisons</code> to save a comparison, then view the overlays below.</p>
  <img src="/api/overlays/occupancy.svg" alt="Queue length">
  <img src="/api/overlays/wait.svg" alt="Estimated wait">
  <img src="/api/overlays/kpis.svg" alt="Key indicators">
</body>
</html>
`
