package notify

import (
	"fmt"
	"sort"
	"time"

	"github.com/osteele/liquid"
)

const summaryTemplate = `<html>
<body style="font-family: Arial, sans-serif; color: #333;">
<h2>LinkedIn Analytics Import: {{ run_id }}</h2>
<p>Started {{ started_at }}, finished in {{ elapsed }}.</p>
<table cellpadding="6" style="border-collapse: collapse;">
<tr><td><b>Processed</b></td><td>{{ processed }}</td></tr>
<tr><td><b>Skipped</b></td><td>{{ skipped }}</td></tr>
<tr><td><b>Failed</b></td><td>{{ failed }}</td></tr>
</table>
{% if categories != empty %}
<h3>By category</h3>
<ul>
{% for c in categories %}<li>{{ c.name }}: {{ c.count }}</li>
{% endfor %}</ul>
{% endif %}
{% if errors.size > 0 %}
<h3 style="color: #b00;">Errors</h3>
<ul>
{% for e in errors %}<li><b>{{ e.file }}</b>: {{ e.reason }}</li>
{% endfor %}</ul>
{% endif %}
</body>
</html>`

const failureTemplate = `<html>
<body style="font-family: Arial, sans-serif; color: #333;">
<h2 style="color: #b00;">LinkedIn Analytics Import Failed</h2>
<p>Run <b>{{ run_id }}</b> aborted before completing:</p>
<pre style="background: #f4f4f4; padding: 12px;">{{ error }}</pre>
<p>Files remain in the inbound folder and will be retried on the next
scheduled run.</p>
</body>
</html>`

// Templates renders notification emails from Liquid sources, parsed once.
type Templates struct {
	summary *liquid.Template
	failure *liquid.Template
}

func NewTemplates() *Templates {
	engine := liquid.NewEngine()
	return &Templates{
		summary: mustParse(engine, summaryTemplate),
		failure: mustParse(engine, failureTemplate),
	}
}

func mustParse(engine *liquid.Engine, src string) *liquid.Template {
	tpl, err := engine.ParseString(src)
	if err != nil {
		panic(fmt.Sprintf("invalid notification template: %v", err))
	}
	return tpl
}

// RenderSummary produces the run digest HTML.
func (t *Templates) RenderSummary(s RunSummary) (string, error) {
	names := make([]string, 0, len(s.PerCategory))
	for name := range s.PerCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	categories := make([]map[string]interface{}, 0, len(names))
	for _, name := range names {
		categories = append(categories, map[string]interface{}{
			"name": name, "count": s.PerCategory[name],
		})
	}
	errs := make([]map[string]interface{}, 0, len(s.Errors))
	for _, e := range s.Errors {
		errs = append(errs, map[string]interface{}{
			"file": e.File, "reason": e.Reason,
		})
	}

	out, err := t.summary.Render(liquid.Bindings{
		"run_id":     s.RunID,
		"started_at": s.StartedAt.UTC().Format(time.RFC3339),
		"elapsed":    s.Elapsed.Round(time.Second).String(),
		"processed":  s.Processed,
		"skipped":    s.Skipped,
		"failed":     s.Failed,
		"categories": categories,
		"errors":     errs,
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// RenderFailure produces the hard-failure alert HTML.
func (t *Templates) RenderFailure(runID string, runErr error) (string, error) {
	msg := "unknown error"
	if runErr != nil {
		msg = runErr.Error()
	}
	out, err := t.failure.Render(liquid.Bindings{
		"run_id": runID,
		"error":  msg,
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}
