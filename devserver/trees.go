package devserver

import (
	"cmp"
	"net/http"
	"slices"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/greenpulse/pulse-client/trees"
	"github.com/greenpulse/pulse-client/users"
)

type treeStore struct {
	mu     sync.RWMutex
	trees  map[int64]*trees.Tree
	nextID int64
}

func newTreeStore() *treeStore {
	return &treeStore{
		trees:  make(map[int64]*trees.Tree),
		nextID: 1,
	}
}

func (ts *treeStore) list(owner users.ID) []trees.Tree {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	list := make([]trees.Tree, 0, len(ts.trees))
	for _, t := range ts.trees {
		if owner == "" || t.OwnerID == owner {
			list = append(list, *t)
		}
	}
	slices.SortFunc(list, func(a, b trees.Tree) int { return cmp.Compare(a.ID, b.ID) })
	return list
}

func (ts *treeStore) get(id int64) (trees.Tree, bool) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	t, ok := ts.trees[id]
	if !ok {
		return trees.Tree{}, false
	}
	return *t, true
}

func (ts *treeStore) create(owner users.ID, p trees.Planting) trees.Tree {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	t := &trees.Tree{
		ID:        ts.nextID,
		Species:   p.Species,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		OwnerID:   owner,
	}
	ts.trees[t.ID] = t
	ts.nextID++
	return *t
}

// update replaces the tree's planting. ok is false when the tree does not
// exist; owned is false when it belongs to someone else.
func (ts *treeStore) update(id int64, owner users.ID, p trees.Planting) (updated trees.Tree, ok, owned bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	t, ok := ts.trees[id]
	if !ok {
		return trees.Tree{}, false, false
	}
	if t.OwnerID != owner {
		return trees.Tree{}, true, false
	}
	t.Species, t.Latitude, t.Longitude = p.Species, p.Latitude, p.Longitude
	return *t, true, true
}

func (ts *treeStore) delete(id int64, owner users.ID) (ok, owned bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	t, ok := ts.trees[id]
	if !ok {
		return false, false
	}
	if t.OwnerID != owner {
		return true, false
	}
	delete(ts.trees, id)
	return true, true
}

func (s *Server) ListTreesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, s.trees.list(""))
	}
}

func (s *Server) TreesByUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, s.trees.list(users.ID(c.Param("userID"))))
	}
}

func (s *Server) GetTreeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := treeID(c)
		if !ok {
			return
		}
		tree, found := s.trees.get(id)
		if !found {
			abort(c, http.StatusNotFound, "Tree not found")
			return
		}
		c.JSON(http.StatusOK, tree)
	}
}

func (s *Server) CreateTreeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		planting, ok := bindPlanting(c)
		if !ok {
			return
		}
		c.JSON(http.StatusCreated, s.trees.create(userIDFromContext(c), planting))
	}
}

func (s *Server) UpdateTreeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := treeID(c)
		if !ok {
			return
		}
		planting, ok := bindPlanting(c)
		if !ok {
			return
		}

		tree, found, owned := s.trees.update(id, userIDFromContext(c), planting)
		switch {
		case !found:
			abort(c, http.StatusNotFound, "Tree not found")
		case !owned:
			abort(c, http.StatusForbidden, "Tree belongs to another user")
		default:
			c.JSON(http.StatusOK, tree)
		}
	}
}

func (s *Server) DeleteTreeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := treeID(c)
		if !ok {
			return
		}

		found, owned := s.trees.delete(id, userIDFromContext(c))
		switch {
		case !found:
			abort(c, http.StatusNotFound, "Tree not found")
		case !owned:
			abort(c, http.StatusForbidden, "Tree belongs to another user")
		default:
			c.Status(http.StatusNoContent)
		}
	}
}

func treeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abort(c, http.StatusBadRequest, "Tree id must be a number")
		return 0, false
	}
	return id, true
}

func bindPlanting(c *gin.Context) (trees.Planting, bool) {
	var p trees.Planting
	if err := c.ShouldBindJSON(&p); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return trees.Planting{}, false
	}
	if err := p.Validate(); err != nil {
		abort(c, http.StatusUnprocessableEntity, err.Error())
		return trees.Planting{}, false
	}
	return p, true
}
