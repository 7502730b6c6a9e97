package domain

// ShipmentTrack is a tracking record attached to a commerce sales order.
type ShipmentTrack struct {
	// SalesOrderID is the commerce sales order the track belongs to.
	SalesOrderID int64
	// CarrierCode identifies the carrier (e.g., "ups", "custom").
	CarrierCode string
	// CarrierTitle is the carrier display name.
	CarrierTitle string
	// TrackingNumber is the carrier tracking identifier.
	TrackingNumber string
	// TrackingURL is the carrier tracking page, may be empty.
	TrackingURL string
	// Relevance scores how useful the track is to report; higher wins.
	Relevance int
}

// BestTrack picks the track to report among several for one sales order: the
// one with the highest relevance, ties broken in favor of the later element.
// ok is false when tracks is empty.
func BestTrack(tracks []ShipmentTrack) (chosen ShipmentTrack, ok bool) {
	if len(tracks) == 0 {
		return ShipmentTrack{}, false
	}

	chosen = tracks[0]
	for _, track := range tracks[1:] {
		if track.Relevance >= chosen.Relevance {
			chosen = track
		}
	}

	return chosen, true
}
