package services

import (
	"booking-restaurant-server/models"
	"fmt"
	"testing"
)

func TestScoreRestaurant(t *testing.T) {
	r := &models.Restaurant{Model: modelID(4), Rating: 4.5, Province: "Thành phố Đà Nẵng"}
	signals := &UserSignals{Favorites: []uint{4}, Viewed: []uint{4}, Ordered: []uint{4}, LastSearch: "đà nẵng"}

	if got := ScoreRestaurant(r, signals); got != 9+5+3+4+2 {
		t.Errorf("score = %v, want 23", got)
	}
	if got := ScoreRestaurant(r, &UserSignals{}); got != 9 {
		t.Errorf("score without signals = %v, want 9", got)
	}
}

func TestRecommendTopTen(t *testing.T) {
	var restaurants []models.Restaurant
	for i := uint(1); i <= 15; i++ {
		restaurants = append(restaurants, models.Restaurant{Model: modelID(i), Name: fmt.Sprint(i), Rating: 3})
	}
	out := Recommend(restaurants, &UserSignals{Favorites: []uint{15}, Ordered: []uint{14}})
	if len(out) != 10 {
		t.Fatalf("got %d, want 10", len(out))
	}
	if out[0].Restaurant.ID != 15 || out[1].Restaurant.ID != 14 || out[2].Restaurant.ID != 1 {
		t.Errorf("order = %d, %d, %d", out[0].Restaurant.ID, out[1].Restaurant.ID, out[2].Restaurant.ID)
	}
}

func TestNearbyRestaurants(t *testing.T) {
	restaurants := []models.Restaurant{
		{Model: modelID(1), Lat: 21.0300, Lng: 105.8550}, // a few hundred metres
		{Model: modelID(2), Lat: 10.7769, Lng: 106.7009}, // Saigon
		{Model: modelID(3)},                              // no coordinates
		{Model: modelID(4), Lat: 21.0285, Lng: 105.8542}, // exactly at the centre
	}
	area, _ := GetAreaInfo("hoan-kiem")
	out := NearbyRestaurants(restaurants, area.Lat, area.Lng, area.Radius)
	if len(out) != 2 || out[0].Restaurant.ID != 4 || out[1].Restaurant.ID != 1 {
		t.Fatalf("nearby = %+v", out)
	}
	if out[0].DistanceKm != 0 {
		t.Errorf("distance = %v", out[0].DistanceKm)
	}
}

func TestAreaKeysByPriority(t *testing.T) {
	keys := GetAreaKeysByPriority()
	if len(keys) != len(DiningAreas) || keys[0] != "hoan-kiem" {
		t.Errorf("keys = %v", keys)
	}
}
