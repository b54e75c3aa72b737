package models

type DeliveryZone struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Fee  float64 `json:"fee"`
}

// DeliveryZones is the static fee table for the delivery area.
var DeliveryZones = []DeliveryZone{
	{ID: "zone_adonis", Name: "Adonis", Fee: 1.00},
	{ID: "zone_zouk_mosbeh", Name: "Zouk Mosbeh", Fee: 2.00},
	{ID: "zone_zouk_mikael", Name: "Zouk Mikael", Fee: 2.50},
	{ID: "zone_sarba", Name: "Sarba", Fee: 3.00},
	{ID: "zone_kaslik", Name: "Kaslik", Fee: 3.00},
	{ID: "zone_jounieh", Name: "Jounieh", Fee: 3.50},
	{ID: "zone_ballouneh", Name: "Ballouneh", Fee: 4.00},
	{ID: "zone_jeita", Name: "Jeita", Fee: 4.50},
	{ID: "zone_cornet_chehwan", Name: "Cornet Chehwan", Fee: 5.00},
}

func FindZone(id string) (DeliveryZone, bool) {
	for _, z := range DeliveryZones {
		if z.ID == id {
			return z, true
		}
	}
	return DeliveryZone{}, false
}
