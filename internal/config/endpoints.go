package config

import "net/url"

// Endpoints lists the REST paths consumed by the client, relative to the API
// base URL and already carrying the API prefix.
type Endpoints struct {
	Login    string
	Register string
	Refresh  string
	Logout   string
	Validate string
	Profile  string

	Rewards          string
	RewardsActive    string
	RewardsAvailable string
	RewardsStats     string

	Trees string
}

func NewEndpoints(prefix string) Endpoints {
	return Endpoints{
		Login:    prefix + "/auth/login",
		Register: prefix + "/auth/register",
		Refresh:  prefix + "/auth/refresh",
		Logout:   prefix + "/auth/logout",
		Validate: prefix + "/auth/validate",
		Profile:  prefix + "/user/profile",

		Rewards:          prefix + "/rewards",
		RewardsActive:    prefix + "/rewards/active",
		RewardsAvailable: prefix + "/rewards/available",
		RewardsStats:     prefix + "/rewards/statistics",

		Trees: prefix + "/trees",
	}
}

func (e Endpoints) Reward(id string) string {
	return e.Rewards + "/" + url.PathEscape(id)
}

func (e Endpoints) RewardsByCategory(category string) string {
	return e.Rewards + "/category/" + url.PathEscape(category)
}

func (e Endpoints) Tree(id string) string {
	return e.Trees + "/" + url.PathEscape(id)
}

func (e Endpoints) TreesByUser(userID string) string {
	return e.Trees + "/user/" + url.PathEscape(userID)
}
