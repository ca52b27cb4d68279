package service

import "farmbook/pkg/model"

const defaultColor = "gray"

// categoryColors is the fixed category to display color mapping. Unknown
// categories fall back to gray.
var categoryColors = map[string]string{
	model.CategoryVisit:    "green",
	model.CategoryWorkshop: "blue",
	model.CategoryTasting:  "purple",
	model.CategoryMarket:   "orange",
	model.CategoryCourse:   "teal",
}

func ColorForCategory(category string) string {
	if color, ok := categoryColors[category]; ok {
		return color
	}
	return defaultColor
}
