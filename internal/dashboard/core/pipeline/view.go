package pipeline

import "github.com/jcmexdev/printhub/internal/dashboard/core/domain/entity"

// View holds the current parameters and page counter of one dashboard
// session. Changing any parameter resets the page to 1.
type View struct {
	params Params
	page   int
}

func NewView() *View {
	return &View{page: 1}
}

// Apply sets new parameters. It reports whether the page was reset.
func (v *View) Apply(p Params) bool {
	if v.params.Equal(p) {
		return false
	}
	v.params = p
	v.page = 1
	return true
}

// LoadMore advances the page counter by one.
func (v *View) LoadMore() {
	v.page++
}

func (v *View) Page() int { return v.page }

func (v *View) Params() Params { return v.params }

// Run evaluates the view over records.
func (v *View) Run(records []entity.OrderRecord) Result {
	return Run(records, v.params, v.page)
}
