package model

// ordered is an insertion-ordered map. Emission order follows insertion
// order so generated output is deterministic.
type ordered[V any] struct {
	keys []string
	m    map[string]V
}

func newOrdered[V any]() ordered[V] {
	return ordered[V]{m: map[string]V{}}
}

func (o *ordered[V]) get(key string) (V, bool) {
	v, ok := o.m[key]
	return v, ok
}

func (o *ordered[V]) set(key string, v V) {
	if _, ok := o.m[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.m[key] = v
}

func (o *ordered[V]) values() []V {
	out := make([]V, 0, len(o.keys))
	for _, k := range o.keys {
		out = append(out, o.m[k])
	}
	return out
}

// EnumCollection holds enumerations keyed by name.
type EnumCollection struct {
	items ordered[*Enumeration]
	// Duplicates records names added more than once so the validation
	// pass can report them instead of losing them.
	Duplicates []string
}

func NewEnumCollection() *EnumCollection {
	return &EnumCollection{items: newOrdered[*Enumeration]()}
}

// Add appends an enumeration. A repeated name keeps the first definition
// and is recorded in Duplicates.
func (c *EnumCollection) Add(e *Enumeration) {
	if _, ok := c.items.get(e.Name); ok {
		c.Duplicates = append(c.Duplicates, e.Name)
		return
	}
	c.items.set(e.Name, e)
}

func (c *EnumCollection) Get(name string) (*Enumeration, bool) { return c.items.get(name) }
func (c *EnumCollection) Names() []string                      { return append([]string(nil), c.items.keys...) }
func (c *EnumCollection) Values() []*Enumeration               { return c.items.values() }
func (c *EnumCollection) Len() int                             { return len(c.items.keys) }

// DelegateCollection holds delegates keyed by language-neutral name.
type DelegateCollection struct {
	items      ordered[*Delegate]
	Duplicates []string
}

func NewDelegateCollection() *DelegateCollection {
	return &DelegateCollection{items: newOrdered[*Delegate]()}
}

// Add stores a delegate. Two delegates with the same name are the same
// delegate; the first definition wins and the repeat is recorded.
func (c *DelegateCollection) Add(d *Delegate) *Delegate {
	if existing, ok := c.items.get(d.Name); ok {
		c.Duplicates = append(c.Duplicates, d.Name)
		return existing
	}
	c.items.set(d.Name, d)
	return d
}

func (c *DelegateCollection) Get(name string) (*Delegate, bool) { return c.items.get(name) }
func (c *DelegateCollection) Values() []*Delegate               { return c.items.values() }
func (c *DelegateCollection) Len() int                          { return len(c.items.keys) }

// FunctionCollection groups functions by category.
type FunctionCollection struct {
	items ordered[[]*Function]
}

func NewFunctionCollection() *FunctionCollection {
	return &FunctionCollection{items: newOrdered[[]*Function]()}
}

// Add appends f to its category, creating the category on first use.
func (c *FunctionCollection) Add(f *Function) {
	list, _ := c.items.get(f.Category)
	c.items.set(f.Category, append(list, f))
}

// Categories returns category names in insertion order.
func (c *FunctionCollection) Categories() []string {
	return append([]string(nil), c.items.keys...)
}

// Functions returns the functions of one category in insertion order.
func (c *FunctionCollection) Functions(category string) []*Function {
	list, _ := c.items.get(category)
	return list
}

// All returns every function, category by category.
func (c *FunctionCollection) All() []*Function {
	var out []*Function
	for _, list := range c.items.values() {
		out = append(out, list...)
	}
	return out
}

func (c *FunctionCollection) Len() int {
	n := 0
	for _, list := range c.items.values() {
		n += len(list)
	}
	return n
}
