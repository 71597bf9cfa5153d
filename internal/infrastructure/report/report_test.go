package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = `**Top Pick: The Bombay Canteen**

| Venue | Area | Why |
|---|---|---|
| The Bombay Canteen | Lower Parel | Vegan menu |
| Birdsong | Bandra | Quiet |

### Logistics Alert
Take the Aqua Line to Worli.`

func TestRender_Table(t *testing.T) {
	out, err := Render(sampleReport)
	require.NoError(t, err)

	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<strong>Top Pick: The Bombay Canteen</strong>")
	assert.Contains(t, out, "<td>Lower Parel</td>")
}

func TestRender_DropsRawHTML(t *testing.T) {
	out, err := Render("hello <script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
}

func TestInspect_FullReport(t *testing.T) {
	s := Inspect(sampleReport)

	assert.True(t, s.HasTable)
	assert.True(t, s.HasBoldHeader)
	assert.True(t, s.HasLogisticsAlert)
	assert.Equal(t, 3, s.TableRows)
	assert.Empty(t, s.Missing())
}

func TestInspect_PlainText(t *testing.T) {
	s := Inspect("Go to a restaurant.\nTake a cab.")

	assert.False(t, s.HasTable)
	assert.False(t, s.HasBoldHeader)
	assert.Equal(t, []string{"table", "bold header", "logistics alert"}, s.Missing())
}

func TestInspect_PipesWithoutSeparatorAreNotATable(t *testing.T) {
	s := Inspect("| just | pipes |")
	assert.False(t, s.HasTable)
	assert.Equal(t, 1, s.TableRows)
}
