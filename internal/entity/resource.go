package entity

import "strconv"

type Floor struct {
	Number int `json:"floor_number"`
}

type Room struct {
	ID          int    `json:"room_id"`
	Name        string `json:"room_name"`
	FloorNumber int    `json:"floor_number"`
	Capacity    int    `json:"capacity"`
}

type Seat struct {
	Number      string `json:"seat_number"`
	FloorNumber int    `json:"floor_number"`
}

type Cafe struct {
	Name        string `json:"cafe_name"`
	FloorNumber int    `json:"floor_number"`
	Cuisine     string `json:"cuisine"`
	Contact     string `json:"contact"`
}

// Resource is the uniform view of a bookable thing used by the workflow
// controller. Ref is what goes into a booking request: the numeric id for
// rooms, the seat number or cafe name otherwise.
type Resource struct {
	Ref         string `json:"ref"`
	Label       string `json:"label"`
	FloorNumber int    `json:"floor_number"`
	Capacity    int    `json:"capacity,omitempty"`
}

func (r Room) AsResource() Resource {
	return Resource{Ref: strconv.Itoa(r.ID), Label: r.Name, FloorNumber: r.FloorNumber, Capacity: r.Capacity}
}

func (s Seat) AsResource() Resource {
	return Resource{Ref: s.Number, Label: s.Number, FloorNumber: s.FloorNumber}
}

func (c Cafe) AsResource() Resource {
	return Resource{Ref: c.Name, Label: c.Name, FloorNumber: c.FloorNumber}
}
