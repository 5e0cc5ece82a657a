package httpserver

const indexHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Energy cost</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
code { background: #f4f4f4; padding: 0 .25rem; }
li { margin: .25rem 0; }
</style>
</head>
<body>
<h1>Energy cost</h1>
<p>Smart meter readings and price plan comparisons.</p>
<ul>
<li><code>POST /readings/store</code></li>
<li><code>GET /readings/read/{meterId}</code></li>
<li><code>GET /price-plans</code></li>
<li><code>GET /price-plans/compare-all/{meterId}</code></li>
<li><code>GET /price-plans/recommend/{meterId}?limit=N</code></li>
<li><code>GET /price-plans/last-week/{meterId}</code></li>
<li><code>GET /price-plans/day-of-week/{meterId}</code></li>
<li><code>GET /price-plans/days-of-week/{meterId}</code></li>
<li><code>GET /price-plans/recommend-day-of-week/{meterId}?limit=N</code></li>
<li><a href="/metrics"><code>GET /metrics</code></a></li>
<li><a href="/healthz"><code>GET /healthz</code></a></li>
</ul>
<h2>Example</h2>
<pre>curl -X POST localhost:8080/readings/store -d '{
  "smartMeterId": "smart-meter-0",
  "electricityReadings": [
    {"time": "2026-10-14T11:00:00Z", "reading": 15.0},
    {"time": 1792000800, "reading": 5.0}
  ]
}'</pre>
</body>
</html>
`
