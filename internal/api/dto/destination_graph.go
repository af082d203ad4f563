package dto

type BuildingJourneysResponse struct {
	BuildingID uint16 `json:"building_id"`
	Journeys   int    `json:"journeys"`
}

type DestinationStopResponse struct {
	StopID        uint16                     `json:"stop_id"`
	TotalJourneys int                        `json:"total_journeys"`
	Buildings     []BuildingJourneysResponse `json:"buildings"`
}

type DestinationGraphResponse struct {
	StopID        uint16                    `json:"stop_id"`
	TotalJourneys int                       `json:"total_journeys"`
	Destinations  []DestinationStopResponse `json:"destinations"`
}

type ReloadResponse struct {
	Stops    int `json:"stops"`
	Citizens int `json:"citizens"`
}
