package dto

type PositionResponse struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type StopResponse struct {
	StopID   uint16           `json:"stop_id"`
	LineID   uint16           `json:"line_id"`
	Mode     string           `json:"mode"`
	Position PositionResponse `json:"position"`
}

type ListStopsResponse struct {
	Stops []StopResponse `json:"stops"`
}
