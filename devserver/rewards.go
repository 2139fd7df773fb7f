package devserver

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/greenpulse/pulse-client/apimodel"
	"github.com/greenpulse/pulse-client/rewards"
)

type rewardEntry struct {
	rewards.Reward
	Active bool
	Stock  int
}

type rewardFilter func(rewardEntry) bool

var (
	rewardsAll       rewardFilter = func(rewardEntry) bool { return true }
	rewardsActive    rewardFilter = func(e rewardEntry) bool { return e.Active }
	rewardsAvailable rewardFilter = func(e rewardEntry) bool { return e.Active && e.Stock > 0 }
)

type rewardCatalog struct {
	mu      sync.RWMutex
	entries map[string]*rewardEntry
	nextID  int
}

func newRewardCatalog() *rewardCatalog {
	rc := &rewardCatalog{entries: make(map[string]*rewardEntry), nextID: 1}
	for _, e := range []rewardEntry{
		{Reward: rewards.Reward{Title: "Seedling kit", Description: "Plant your own ipe", Points: 100, Category: "plants"}, Active: true, Stock: 20},
		{Reward: rewards.Reward{Title: "Bike day pass", Description: "One day of shared bikes", Points: 250, Category: "mobility"}, Active: true, Stock: 0},
		{Reward: rewards.Reward{Title: "Reusable bottle", Description: "Steel, 750ml", Points: 400, Category: "products"}, Active: true, Stock: 5},
		{Reward: rewards.Reward{Title: "Cinema ticket", Description: "Partner cinemas only", Points: 600, Category: "leisure"}, Active: false, Stock: 10},
	} {
		rc.add(e)
	}
	return rc
}

func (rc *rewardCatalog) add(e rewardEntry) rewards.Reward {
	e.ID = strconv.Itoa(rc.nextID)
	rc.nextID++
	rc.entries[e.ID] = &e
	return e.Reward
}

func (rc *rewardCatalog) list(filter rewardFilter) []rewards.Reward {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	list := make([]rewards.Reward, 0, len(rc.entries))
	for _, e := range rc.entries {
		if filter(*e) {
			list = append(list, e.Reward)
		}
	}
	slices.SortFunc(list, func(a, b rewards.Reward) int {
		ai, _ := strconv.Atoi(a.ID)
		bi, _ := strconv.Atoi(b.ID)
		return ai - bi
	})
	return list
}

func (s *Server) ListRewardsHandler(filter rewardFilter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, apimodel.Envelope[[]rewards.Reward]{Data: s.rewards.list(filter), Success: true})
	}
}

func (s *Server) RewardsByCategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		category := c.Param("category")
		list := s.rewards.list(func(e rewardEntry) bool {
			return strings.EqualFold(e.Category, category)
		})
		c.JSON(http.StatusOK, apimodel.Envelope[[]rewards.Reward]{Data: list, Success: true})
	}
}

func (s *Server) GetRewardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.rewards.mu.RLock()
		e, ok := s.rewards.entries[c.Param("id")]
		var reward rewards.Reward
		if ok {
			reward = e.Reward
		}
		s.rewards.mu.RUnlock()

		if !ok {
			abort(c, http.StatusNotFound, "Reward not found")
			return
		}
		c.JSON(http.StatusOK, reward)
	}
}

func (s *Server) CreateRewardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var reward rewards.Reward
		if err := c.ShouldBindJSON(&reward); err != nil || reward.Title == "" || reward.Points < 0 {
			abort(c, http.StatusBadRequest, "A title and non negative points are required")
			return
		}

		s.rewards.mu.Lock()
		created := s.rewards.add(rewardEntry{Reward: reward, Active: true, Stock: 1})
		s.rewards.mu.Unlock()

		c.JSON(http.StatusCreated, created)
	}
}

func (s *Server) UpdateRewardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var changes rewards.Reward
		if err := c.ShouldBindJSON(&changes); err != nil || changes.Title == "" || changes.Points < 0 {
			abort(c, http.StatusBadRequest, "A title and non negative points are required")
			return
		}

		s.rewards.mu.Lock()
		e, ok := s.rewards.entries[c.Param("id")]
		if ok {
			changes.ID = e.ID
			e.Reward = changes
		}
		s.rewards.mu.Unlock()

		if !ok {
			abort(c, http.StatusNotFound, "Reward not found")
			return
		}
		c.JSON(http.StatusOK, changes)
	}
}

func (s *Server) DeleteRewardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.rewards.mu.Lock()
		_, ok := s.rewards.entries[c.Param("id")]
		delete(s.rewards.entries, c.Param("id"))
		s.rewards.mu.Unlock()

		if !ok {
			abort(c, http.StatusNotFound, "Reward not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Reward deleted"})
	}
}

func (s *Server) RewardStatisticsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		byCategory := make(map[string]int)
		all := s.rewards.list(rewardsAll)
		for _, r := range all {
			byCategory[r.Category]++
		}
		c.JSON(http.StatusOK, apimodel.Envelope[gin.H]{Data: gin.H{
			"total":       len(all),
			"active":      len(s.rewards.list(rewardsActive)),
			"available":   len(s.rewards.list(rewardsAvailable)),
			"by_category": byCategory,
		}, Success: true})
	}
}
