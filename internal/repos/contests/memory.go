package contests

import "context"

type memoryCatalog struct {
	byID  map[int64]Contest
	order []Contest
}

// NewMemoryCatalog returns an in-memory Catalog over a fixed set of contests.
func NewMemoryCatalog(cs ...Contest) Catalog {
	m := &memoryCatalog{byID: make(map[int64]Contest, len(cs))}

	for _, c := range cs {
		if _, dup := m.byID[c.ID]; dup {
			continue
		}

		m.byID[c.ID] = c
		m.order = append(m.order, c)
	}

	return m
}

// ActiveBattles returns the default battle card.
func ActiveBattles() Catalog {
	mustNew := func(id int64, a, b, w string) Contest {
		c, err := New(id, a, b, w)
		if err != nil {
			panic(err)
		}

		return c
	}

	return NewMemoryCatalog(
		mustNew(1, "Trueno", "Dani", "Trueno"),
		mustNew(2, "Wos", "Mks", "Wos"),
		mustNew(3, "Aczino", "Gazir", "Gazir"),
	)
}

func (m *memoryCatalog) GetByID(_ context.Context, id int64) (Contest, error) {
	c, ok := m.byID[id]
	if !ok {
		return Contest{}, ErrContestNotFound
	}

	return c, nil
}

func (m *memoryCatalog) List(_ context.Context) ([]Contest, error) {
	out := make([]Contest, len(m.order))
	copy(out, m.order)

	return out, nil
}
