package exporter

// chartHTML is a standalone Vega-Lite page. Spec is pre-encoded JSON.
const chartHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <style>
    html, body { margin: 0; padding: 0; background: #fff; }
    #vis.vega-embed { width: 100%; display: flex; }
    #vis.vega-embed details,
    #vis.vega-embed details summary { position: relative; }
  </style>
  <script src="https://cdn.jsdelivr.net/npm/vega@{{.VegaVersion}}"></script>
  <script src="https://cdn.jsdelivr.net/npm/vega-lite@{{.VegaLiteVersion}}"></script>
  <script src="https://cdn.jsdelivr.net/npm/vega-embed@{{.VegaEmbedVersion}}"></script>
</head>
<body>
  <div id="vis"></div>
  <script>
    (function(vegaEmbed) {
      var spec = {{.Spec}};
      var el = document.getElementById("vis");
      vegaEmbed(el, spec, {"mode": "vega-lite"}).catch(function(err) {
        el.innerHTML = '<div class="error" style="color:red;"><p>JavaScript Error: ' + err.message + '</p></div>';
        throw err;
      });
    })(vegaEmbed);
  </script>
</body>
</html>
`

// shellHTML is the tabbed wrapper that embeds every chart page in an iframe.
// Exactly one tab is active at a time; the first one on load.
const shellHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <style>
    body { background: #1a365d; margin: 0; padding: 0; }
    .logo { width: 150px; height: 150px; display: block; margin: 10px -50px -50px 10px; }
    .site-title {
      color: #fff; font-size: 3.5rem; font-weight: bold; text-align: center;
      margin-top: 10px; margin-bottom: 30px; letter-spacing: 2px;
      text-shadow: 0 4px 24px #000, 0 1px 0 #4a90e2;
    }
    .tab-bar { display: flex; justify-content: center; margin-bottom: 30px; }
    .tab {
      background: #274472; color: #fff; border: none; outline: none;
      padding: 16px 32px; font-size: 1.2rem; cursor: pointer; margin: 0 4px;
      border-radius: 8px 8px 0 0; transition: background 0.2s;
    }
    .tab.active { background: #4a90e2; font-weight: bold; }
    .tab-content {
      display: none; max-width: 1000px; margin: 40px auto; background: #fff;
      border-radius: 0 0 12px 12px; box-shadow: 0 2px 16px #0004;
    }
    .tab-content.active { display: block; }
    .chart-container { width: 100%; height: 650px; background: #fff; display: flex; justify-content: center; }
    .chart-container iframe { width: 100%; height: 650px; border: none; background: #fff; display: block; }
    .credit {
      position: fixed; left: 20px; bottom: 20px; color: #fff; font-size: 1.1rem;
      background: rgba(0,0,0,0.3); padding: 6px 16px; border-radius: 8px;
      z-index: 1000; font-family: Arial, sans-serif;
    }
    @media (max-width: 1200px) {
      .tab-content, .chart-container, .chart-container iframe { width: 100vw; max-width: 100vw; }
    }
  </style>
  <script>
    function showTab(idx) {
      var tabs = document.getElementsByClassName('tab');
      var contents = document.getElementsByClassName('tab-content');
      for (var i = 0; i < tabs.length; i++) {
        tabs[i].classList.remove('active');
        contents[i].classList.remove('active');
      }
      tabs[idx].classList.add('active');
      contents[idx].classList.add('active');
    }
    window.onload = function() { showTab(0); };
  </script>
</head>
<body>
  {{if .Logo}}<img src="{{.Logo}}" class="logo" alt="logo" />{{end}}
  <div class="site-title">{{.Title}}</div>
  <div class="tab-bar">
    {{- range $i, $t := .Tabs}}
    <button class="tab" onclick="showTab({{$i}})">{{$t.Label}}</button>
    {{- end}}
  </div>
  {{- range .Tabs}}
  <div class="tab-content"><div class="chart-container"><iframe src="{{.File}}"></iframe></div></div>
  {{- end}}
  {{if .Credit}}<div class="credit">{{.Credit}}</div>{{end}}
</body>
</html>
`
