package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/JonMunkholm/mseboard/internal/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	units := []unit.Unit{unit.OMO, unit.NewBureau(2), unit.NewExpert(7)}

	var buf bytes.Buffer
	require.NoError(t, Index(units).Render(context.Background(), &buf))
	html := buf.String()

	assert.Contains(t, html, `<a href="/api/export/all">`)
	assert.Contains(t, html, `<li><a href="/api/export/bureau_2">Бюро №2</a> <code>bureau_2</code></li>`)
	assert.Contains(t, html, `<li><a href="/api/export/expert_7">ЭС №7</a> <code>expert_7</code></li>`)
	assert.NotContains(t, html, "/api/export/omo")
}

func TestIndex_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := Index(nil).Render(ctx, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, buf.String())
}
