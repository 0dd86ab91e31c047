// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package schema

// GamificationAchievementTable represents the 'gamification.achievement' table
type GamificationAchievementTable struct {
	Table            string
	ID               string
	Slug             string
	Name             string
	NameLocal        string
	Description      string
	IconURL          string
	Category         string
	Rarity           string
	RequirementKind  string
	RequirementValue string
	RewardPoints     string
	IsSecret         string
	IsActive         string
	CreatedAt        string
}

// GamificationAchievement is the schema definition for gamification.achievement
var GamificationAchievement = GamificationAchievementTable{
	Table:            "gamification.achievement",
	ID:               "id",
	Slug:             "slug",
	Name:             "name",
	NameLocal:        "namelocal",
	Description:      "description",
	IconURL:          "iconurl",
	Category:         "category",
	Rarity:           "rarity",
	RequirementKind:  "requirementkind",
	RequirementValue: "requirementvalue",
	RewardPoints:     "rewardpoints",
	IsSecret:         "issecret",
	IsActive:         "isactive",
	CreatedAt:        "createdat",
}

// GamificationUserAchievementTable represents the 'gamification.userachievement' table
type GamificationUserAchievementTable struct {
	Table         string
	ID            string
	UserID        string
	AchievementID string
	IsCompleted   string
	Progress      string
	EarnedAt      string
}

// GamificationUserAchievement is the schema definition for gamification.userachievement
var GamificationUserAchievement = GamificationUserAchievementTable{
	Table:         "gamification.userachievement",
	ID:            "id",
	UserID:        "userid",
	AchievementID: "achievementid",
	IsCompleted:   "iscompleted",
	Progress:      "progress",
	EarnedAt:      "earnedat",
}
