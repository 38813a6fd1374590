package web

import (
	"html/template"

	"github.com/basel-ax/archrender/internal/domain"
)

type presetOption struct {
	Value    string
	Selected bool
}

type pageData struct {
	State     domain.SessionState
	Presets   []presetOption
	ResultSrc string
	Busy      bool
}

func newPageData(st domain.SessionState) pageData {
	data := pageData{
		State: st,
		Busy:  st.Phase == domain.PhaseUploading || st.Phase == domain.PhaseGenerating,
	}
	for _, p := range domain.Presets {
		data.Presets = append(data.Presets, presetOption{Value: p.String(), Selected: p == st.Preset})
	}
	if st.Result != nil {
		data.ResultSrc = "/blob/" + st.Result.ID
	}
	return data
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>AI Architectural Rendering Tool</title>
{{if .Busy}}<noscript><meta http-equiv="refresh" content="2"></noscript>{{end}}
</head>
<body style="text-align: center; margin-top: 50px">
<h1>AI Architectural Rendering Tool</h1>
<p id="notice" role="alert"{{with .State.Notice}} class="notice-{{.Level}}"{{end}}>{{with .State.Notice}}{{.Message}}{{end}}</p>
<form method="post" action="/generate" enctype="multipart/form-data">
  <div>
    <input type="file" name="image" accept="image/*" style="margin: 20px 0">
    {{with .State.Image}}<div>Selected: {{.Filename}}</div>{{end}}
  </div>
  <div>
    <textarea name="prompt" placeholder="Enter a prompt for rendering..." rows="4" cols="50" style="margin: 20px 0">{{.State.Prompt}}</textarea>
  </div>
  <div>
    <label for="preset">Choose a preset:</label>
    <select id="preset" name="preset" style="margin: 10px">
      {{range .Presets}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>
      {{end}}
    </select>
  </div>
  <div>
    <button type="submit" style="padding: 10px 20px; font-size: 16px">Generate Rendering</button>
    <span id="status">{{if .Busy}}{{.State.Phase}}...{{end}}</span>
  </div>
</form>
<div id="result" style="margin-top: 30px"{{if not .ResultSrc}} hidden{{end}}>
  <h2>Generated Image:</h2>
  <img id="result-img" src="{{.ResultSrc}}" alt="Generated rendering" style="max-width: 80%; max-height: 400px">
</div>
{{if .Busy}}<script>
(function poll() {
  fetch("/state", {headers: {"Accept": "application/json"}})
    .then(function (r) { return r.json(); })
    .then(function (st) {
      if (st.phase === "uploading" || st.phase === "generating") {
        document.getElementById("status").textContent = st.phase + "...";
        setTimeout(poll, 1000);
        return;
      }
      document.getElementById("status").textContent = "";
      var notice = document.getElementById("notice");
      notice.textContent = st.notice ? st.notice.message : "";
      notice.className = st.notice ? "notice-" + st.notice.level : "";
      if (st.result) {
        document.getElementById("result-img").src = "/blob/" + st.result.id;
        document.getElementById("result").hidden = false;
      }
    })
    .catch(function () { setTimeout(poll, 2000); });
})();
</script>{{end}}
</body>
</html>
`))
