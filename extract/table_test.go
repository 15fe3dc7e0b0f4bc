package extract_test

import (
	"testing"

	"github.com/slidekit/slidekit"
	"github.com/slidekit/slidekit/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTable(t *testing.T) {
	t.Parallel()

	ex := extract.New()

	t.Run("sectioned table", func(t *testing.T) {
		t.Parallel()

		doc := ex.Extract(snapshot(t, `<body><table data-box="96 96 480 144">
			<thead style="background-color: #003366">
				<tr>
					<th data-box="96 96 120 36" style="font-size: 16px; color: #FFFFFF">Region</th>
					<th data-box="216 96 360 36" style="font-size: 16px; color: #FFFFFF">Revenue</th>
				</tr>
			</thead>
			<tbody>
				<tr><td data-box="96 132 120 36" style="font-size: 14px">EMEA</td><td data-box="216 132 360 36" style="font-size: 14px">1.2M</td></tr>
				<tr><td data-box="96 168 120 36" style="font-size: 14px">APAC</td><td data-box="216 168 360 36" style="font-size: 14px">0.9M</td></tr>
			</tbody>
		</table></body>`), page)

		require.NoError(t, doc.Err())
		require.Len(t, doc.Elements, 1)
		table, ok := doc.Elements[0].(slidekit.TableBlock)
		require.True(t, ok)

		assert.Equal(t, slidekit.Position{X: 1, Y: 1, W: 5, H: 1.5}, table.Position)
		require.Len(t, table.Rows, 3)

		head := table.Rows[0]
		assert.Equal(t, "Region", head[0].Text)
		assert.True(t, head[0].Style.Bold)
		assert.Equal(t, "#FFFFFF", head[0].Style.Color)
		// Header fill falls back to the thead background.
		assert.Equal(t, "#003366", head[0].Style.Fill)

		body := table.Rows[1]
		assert.Equal(t, "EMEA", body[0].Text)
		assert.False(t, body[0].Style.Bold)
		assert.Empty(t, body[0].Style.Fill)
		// 14px through the cell ratio and table scale.
		assert.InDelta(t, 14*0.8*0.85, body[0].Style.FontSizePt, 1e-9)
	})

	t.Run("column ratios normalize to one", func(t *testing.T) {
		t.Parallel()

		doc := ex.Extract(snapshot(t, `<body><table data-box="0 0 480 72">
			<tr><th data-box="0 0 120 36">a</th><th data-box="120 0 360 36">b</th></tr>
			<tr><td data-box="0 36 120 36">1</td><td data-box="120 36 360 36">2</td></tr>
		</table></body>`), page)

		require.NoError(t, doc.Err())
		table := doc.Elements[0].(slidekit.TableBlock)
		require.Len(t, table.ColumnWidthRatios, 2)
		assert.InDelta(t, 0.25, table.ColumnWidthRatios[0], 1e-9)
		assert.InDelta(t, 0.75, table.ColumnWidthRatios[1], 1e-9)
		assert.InDelta(t, 1.0, table.ColumnWidthRatios[0]+table.ColumnWidthRatios[1], 1e-9)
	})

	t.Run("all-th first row counts as a header without thead", func(t *testing.T) {
		t.Parallel()

		// Header-only: the fallback detection makes the missing data rows
		// the finding, not a missing header.
		doc := ex.Extract(snapshot(t, `<body><table data-box="0 0 480 36">
			<tr><th data-box="0 0 240 36">a</th><th data-box="240 0 240 36">b</th></tr>
		</table></body>`), page)

		require.False(t, doc.Valid())
		assert.Contains(t, doc.Errors[0], "no data rows")
		assert.Empty(t, doc.Elements)
	})

	t.Run("ragged rows invalidate the table", func(t *testing.T) {
		t.Parallel()

		doc := ex.Extract(snapshot(t, `<body><table data-box="0 0 480 108">
			<tr><th data-box="0 0 240 36">a</th><th data-box="240 0 240 36">b</th></tr>
			<tr><td data-box="0 36 480 36">only one</td></tr>
			<tr><td data-box="0 72 240 36">1</td><td data-box="240 72 240 36">2</td></tr>
		</table></body>`), page)

		require.False(t, doc.Valid())
		assert.Contains(t, doc.Errors[0], "table row 2 has 1 cells, expected 2")
		assert.Empty(t, doc.Elements)
	})

	t.Run("empty table is a finding", func(t *testing.T) {
		t.Parallel()

		doc := ex.Extract(snapshot(t, `<body><table data-box="0 0 480 36"></table></body>`), page)

		require.False(t, doc.Valid())
		assert.Contains(t, doc.Errors[0], "no rows")
	})

	t.Run("zero-width header cells are a finding", func(t *testing.T) {
		t.Parallel()

		doc := ex.Extract(snapshot(t, `<body><table data-box="0 0 480 72">
			<tr><th>a</th><th>b</th></tr>
			<tr><td data-box="0 36 240 36">1</td><td data-box="240 36 240 36">2</td></tr>
		</table></body>`), page)

		require.False(t, doc.Valid())
		assert.Contains(t, doc.Errors[0], "column widths")
	})

	t.Run("styled cell content keeps runs", func(t *testing.T) {
		t.Parallel()

		doc := ex.Extract(snapshot(t, `<body><table data-box="0 0 480 72">
			<tr><th data-box="0 0 240 36">k</th><th data-box="240 0 240 36">v</th></tr>
			<tr><td data-box="0 36 240 36"><b>up</b> 4%</td><td data-box="240 36 240 36">flat</td></tr>
		</table></body>`), page)

		require.NoError(t, doc.Err())
		table := doc.Elements[0].(slidekit.TableBlock)
		cell := table.Rows[1][0]
		assert.Empty(t, cell.Text)
		require.Len(t, cell.Runs, 2)
		assert.True(t, cell.Runs[0].Options.Bold)
		assert.Equal(t, "flat", table.Rows[1][1].Text)
	})
}
