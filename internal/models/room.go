package models

// ClassRoom represents a physical teaching room.
type ClassRoom struct {
	ID       int64  `json:"id"`
	Code     string `json:"roomCode"`
	Capacity int    `json:"capacity"`
	Location string `json:"location"`
}

// ClassRoomPayload is the writable subset of a room.
type ClassRoomPayload struct {
	Code     string `json:"roomCode" validate:"required"`
	Capacity int    `json:"capacity" validate:"required,gt=0"`
	Location string `json:"location"`
}
