package extract_test

import (
	"testing"

	"github.com/slidekit/slidekit"
	"github.com/slidekit/slidekit/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractList(t *testing.T) {
	t.Parallel()

	ex := extract.New()

	t.Run("items join with line breaks between them", func(t *testing.T) {
		t.Parallel()

		doc := ex.Extract(snapshot(t, `<body><ul data-box="96 96 480 144"
			style="font-size: 16px; padding-left: 40px">
			<li>first</li>
			<li>second</li>
			<li>third</li>
		</ul></body>`), page)

		require.NoError(t, doc.Err())
		require.Len(t, doc.Elements, 1)
		list, ok := doc.Elements[0].(slidekit.ListBlock)
		require.True(t, ok)

		require.Len(t, list.Items, 3)
		assert.Equal(t, "first", list.Items[0].Text)
		assert.True(t, list.Items[0].Options.BreakLine)
		assert.True(t, list.Items[1].Options.BreakLine)
		assert.Equal(t, "third", list.Items[2].Text)
		assert.False(t, list.Items[2].Options.BreakLine)
	})

	t.Run("marker geometry derives from list padding", func(t *testing.T) {
		t.Parallel()

		doc := ex.Extract(snapshot(t, `<body><ul data-box="0 0 480 100"
			style="padding-left: 40px"><li>only</li></ul></body>`), page)

		require.Len(t, doc.Elements, 1)
		list := doc.Elements[0].(slidekit.ListBlock)
		assert.Equal(t, 10.0, list.Style.BulletIndentPt)
		// Half of the 40px padding at 0.75 px/pt.
		assert.Equal(t, 15.0, list.Style.MarginLeftPt)
	})

	t.Run("literal bullets inside items are stripped", func(t *testing.T) {
		t.Parallel()

		doc := ex.Extract(snapshot(t, `<body><ul data-box="0 0 480 100">
			<li>&#8226; doubled marker</li>
		</ul></body>`), page)

		require.NoError(t, doc.Err())
		list := doc.Elements[0].(slidekit.ListBlock)
		require.Len(t, list.Items, 1)
		assert.Equal(t, "doubled marker", list.Items[0].Text)
	})

	t.Run("styled items keep their runs", func(t *testing.T) {
		t.Parallel()

		doc := ex.Extract(snapshot(t, `<body><ul data-box="0 0 480 100">
			<li><b>key:</b> value</li>
			<li>plain</li>
		</ul></body>`), page)

		require.Len(t, doc.Elements, 1)
		list := doc.Elements[0].(slidekit.ListBlock)
		require.Len(t, list.Items, 3)
		assert.Equal(t, "key:", list.Items[0].Text)
		assert.True(t, list.Items[0].Options.Bold)
		assert.True(t, list.Items[1].Options.BreakLine)
		assert.Equal(t, "plain", list.Items[2].Text)
	})

	t.Run("empty lists produce nothing", func(t *testing.T) {
		t.Parallel()

		doc := ex.Extract(snapshot(t, `<body>
			<ul data-box="0 0 480 100"></ul>
			<ul data-box="0 0 480 100"><li>   </li></ul>
		</body>`), page)

		require.NoError(t, doc.Err())
		assert.Empty(t, doc.Elements)
	})
}
