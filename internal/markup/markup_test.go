package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `<div class="outer">
  <ul class="list">
    <li class="item first"><a class="link" href="#g=a">A</a></li>
    <li class="item"><a class="link" href="#g=b">B <b>bold</b></a></li>
  </ul>
  <p class="item">para</p>
</div>`

func parse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := ParseString(s)
	require.NoError(t, err)
	return doc
}

func TestFind_DocumentOrder(t *testing.T) {
	doc := parse(t, fixture)

	items := doc.Find("item")
	require.Len(t, items, 3)
	assert.Equal(t, "li", items[0].Tag())
	assert.Equal(t, "li", items[1].Tag())
	assert.Equal(t, "p", items[2].Tag())
}

func TestElements_AreInterned(t *testing.T) {
	doc := parse(t, fixture)

	a := doc.Find("link")[0]
	b := doc.Root().First("link")
	assert.Same(t, a, b)
	assert.Equal(t, 0, Index(doc.Find("link"), b))
}

func TestChildren_DirectOnly(t *testing.T) {
	doc := parse(t, fixture)
	outer := doc.Root().First("outer")
	require.NotNil(t, outer)

	kids := outer.Children("item")
	require.Len(t, kids, 1)
	assert.Equal(t, "p", kids[0].Tag())
	assert.Len(t, outer.Children(""), 2)
}

func TestClosest(t *testing.T) {
	doc := parse(t, fixture)
	link := doc.Find("link")[1]

	li := link.Closest("item")
	require.NotNil(t, li)
	assert.Equal(t, "li", li.Tag())
	assert.Same(t, link, link.Closest("link"), "closest includes self")
	assert.Nil(t, link.Closest("missing"))
}

func TestClassToggling(t *testing.T) {
	doc := parse(t, fixture)
	li := doc.Find("item")[0]

	li.AddClass("active")
	li.AddClass("active")
	assert.Equal(t, []string{"item", "first", "active"}, li.Classes())

	li.RemoveClass("first")
	assert.Equal(t, []string{"item", "active"}, li.Classes())
	assert.True(t, li.HasClass("active"))

	li.RemoveClass("absent")
	assert.Equal(t, []string{"item", "active"}, li.Classes())
}

func TestAttrAndText(t *testing.T) {
	doc := parse(t, fixture)
	link := doc.Find("link")[1]

	href, ok := link.Attr("href")
	assert.True(t, ok)
	assert.Equal(t, "#g=b", href)
	_, ok = link.Attr("title")
	assert.False(t, ok)
	assert.Equal(t, "B bold", link.Text())

	link.SetAttr("title", "tip")
	v, _ := link.Attr("title")
	assert.Equal(t, "tip", v)
}

func TestContains(t *testing.T) {
	doc := parse(t, fixture)
	list := doc.Root().First("list")
	assert.True(t, list.Contains(doc.Find("link")[0]))
	assert.False(t, list.Contains(doc.Find("item")[2]))
}

func TestDispatch_DelegatesToMatchingAncestor(t *testing.T) {
	doc := parse(t, fixture)
	links := doc.Find("link")
	bold := onlyChild(t, links[1])

	var got []*Element
	doc.On("click", In(links), func(ev *Event) {
		got = append(got, ev.CurrentTarget)
		ev.PreventDefault()
	})

	ev, proceed := doc.Click(bold)
	assert.False(t, proceed)
	assert.True(t, ev.DefaultPrevented)
	assert.Empty(t, ev.Navigate)
	require.Len(t, got, 1)
	assert.Same(t, links[1], got[0])
	assert.Nil(t, ev.CurrentTarget)
}

func TestDispatch_OffAndStopPropagation(t *testing.T) {
	doc := parse(t, fixture)
	link := doc.Find("link")[0]

	var inner, outer int
	off := doc.On("click", ByClass("link"), func(ev *Event) {
		inner++
		ev.StopPropagation()
	})
	doc.On("click", ByClass("outer"), func(*Event) { outer++ })

	_, proceed := doc.Click(link)
	assert.True(t, proceed)
	assert.Equal(t, 1, inner)
	assert.Equal(t, 0, outer)

	off()
	off()
	doc.Click(link)
	assert.Equal(t, 1, inner)
	assert.Equal(t, 1, outer)
}

func TestClick_NavigateWithoutListeners(t *testing.T) {
	doc := parse(t, fixture)

	ev, proceed := doc.Click(onlyChild(t, doc.Find("link")[1]))
	assert.True(t, proceed)
	assert.Equal(t, "#g=b", ev.Navigate)

	ev, proceed = doc.Click(doc.Find("item")[2])
	assert.True(t, proceed)
	assert.Empty(t, ev.Navigate)
}

func TestDispatch_IgnoresOtherTypes(t *testing.T) {
	doc := parse(t, fixture)
	var n int
	doc.On("keydown", ByClass("link"), func(*Event) { n++ })
	doc.Click(doc.Find("link")[0])
	assert.Zero(t, n)
}

func onlyChild(t *testing.T, e *Element) *Element {
	t.Helper()
	kids := e.Children("")
	require.Len(t, kids, 1)
	return kids[0]
}

func TestTextExcluding(t *testing.T) {
	doc := parse(t, `<div class="body">intro <div class="tabs">nested</div> outro</div>`)
	body := doc.Root().First("body")
	assert.Equal(t, "intro nested outro", body.Text())
	assert.Equal(t, "intro outro", body.TextExcluding("tabs"))
}
