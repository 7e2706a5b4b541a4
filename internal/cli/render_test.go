package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasquest/internal/appdata/models"
	id "tasquest/pkg/domain"
)

func TestRenderBoard(t *testing.T) {
	data, err := models.NewAppData("Jane", "Todo", "Done")
	require.NoError(t, err)
	goal, err := models.NewGoal("Learn X", time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, data.AddGoal(data.Statuses[0].ID, goal))
	tag, err := models.NewTag("Productivity", models.NewColor(1, 0, 0))
	require.NoError(t, err)
	require.NoError(t, data.AddTag(tag))
	require.NoError(t, data.AttachTag(goal.ID, tag.ID))

	t.Run("status rows use the palette", func(t *testing.T) {
		var buf bytes.Buffer
		renderBoard(&buf, data, renderOptions{})
		out := buf.String()
		assert.Contains(t, out, "Todo  "+models.BackgroundColorFor(0, 2).Hex())
		assert.Contains(t, out, "Done  "+models.BackgroundColorFor(1, 2).Hex())
		assert.Contains(t, out, "[Producti...]")
		assert.Contains(t, out, "Productivity  #ff0000")
	})

	t.Run("tag filter runs the model query", func(t *testing.T) {
		other, err := models.NewTag("Fun", models.NewColor(0, 1, 0))
		require.NoError(t, err)
		require.NoError(t, data.AddTag(other))

		var buf bytes.Buffer
		renderBoard(&buf, data, renderOptions{tagFilter: &other.ID})
		assert.NotContains(t, buf.String(), "Learn X")

		upper, err := id.ParseTagID(strings.ToUpper(tag.ID.String()))
		require.NoError(t, err)
		require.Len(t, data.GoalsWithTag(upper), 1)

		buf.Reset()
		renderBoard(&buf, data, renderOptions{tagFilter: &upper})
		assert.Contains(t, buf.String(), "Learn X")
	})

	t.Run("starred filter combines with the tag filter", func(t *testing.T) {
		var buf bytes.Buffer
		renderBoard(&buf, data, renderOptions{starredOnly: true, tagFilter: &tag.ID})
		assert.NotContains(t, buf.String(), "Learn X")

		require.NoError(t, data.ToggleStar(goal.ID))
		buf.Reset()
		renderBoard(&buf, data, renderOptions{starredOnly: true, tagFilter: &tag.ID})
		assert.Contains(t, buf.String(), "★ Learn X")
	})
}
