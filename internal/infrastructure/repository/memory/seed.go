package memory

import (
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/geo"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/league"
)

const (
	LeagueIDSoccerSim    = "soccer-sim"
	LeagueIDRescue       = "rescue"
	LeagueIDLineFollower = "line-follower"
	LeagueIDDrone        = "drone"
	LeagueIDMaze         = "maze"
	LeagueIDAIChallenge  = "ai-challenge"
)

func SeedLeagues() []league.League {
	return []league.League{
		{ID: LeagueIDSoccerSim, Name: "Soccer Simulation"},
		{ID: LeagueIDRescue, Name: "Rescue Robot"},
		{ID: LeagueIDLineFollower, Name: "Line Follower"},
		{ID: LeagueIDDrone, Name: "Autonomous Drone"},
		{ID: LeagueIDMaze, Name: "Micromouse Maze"},
		{ID: LeagueIDAIChallenge, Name: "AI Challenge"},
	}
}

const (
	ProvinceIDTehran     = "thr"
	ProvinceIDIsfahan    = "isf"
	ProvinceIDFars       = "frs"
	ProvinceIDKhorasan   = "khr"
	ProvinceIDAzarbaijan = "eaz"
)

func SeedProvinces() []geo.Province {
	return []geo.Province{
		{ID: ProvinceIDTehran, Name: "Tehran"},
		{ID: ProvinceIDIsfahan, Name: "Isfahan"},
		{ID: ProvinceIDFars, Name: "Fars"},
		{ID: ProvinceIDKhorasan, Name: "Razavi Khorasan"},
		{ID: ProvinceIDAzarbaijan, Name: "East Azerbaijan"},
	}
}

func SeedCities() []geo.City {
	return []geo.City{
		{ID: "thr-tehran", ProvinceID: ProvinceIDTehran, Name: "Tehran"},
		{ID: "thr-karaj", ProvinceID: ProvinceIDTehran, Name: "Karaj"},
		{ID: "isf-isfahan", ProvinceID: ProvinceIDIsfahan, Name: "Isfahan"},
		{ID: "isf-kashan", ProvinceID: ProvinceIDIsfahan, Name: "Kashan"},
		{ID: "frs-shiraz", ProvinceID: ProvinceIDFars, Name: "Shiraz"},
		{ID: "frs-marvdasht", ProvinceID: ProvinceIDFars, Name: "Marvdasht"},
		{ID: "khr-mashhad", ProvinceID: ProvinceIDKhorasan, Name: "Mashhad"},
		{ID: "khr-neyshabur", ProvinceID: ProvinceIDKhorasan, Name: "Neyshabur"},
		{ID: "eaz-tabriz", ProvinceID: ProvinceIDAzarbaijan, Name: "Tabriz"},
		{ID: "eaz-maragheh", ProvinceID: ProvinceIDAzarbaijan, Name: "Maragheh"},
	}
}
