package domain

// ListingPatch is a sparse update. Only fields with Set are applied; slug,
// id, created_at and created_by are not updatable.
type ListingPatch struct {
	Title          Opt[string]        `json:"title"`
	Description    Opt[string]        `json:"description"`
	Price          Opt[float64]       `json:"price"`
	Type           Opt[PropertyType]  `json:"property_type"`
	Status         Opt[ListingStatus] `json:"status"`
	Address        Opt[string]        `json:"address"`
	City           Opt[string]        `json:"city"`
	State          Opt[string]        `json:"state"`
	ZipCode        Opt[string]        `json:"zip_code"`
	Bedrooms       Opt[int]           `json:"bedrooms"`
	Bathrooms      Opt[int]           `json:"bathrooms"`
	Area           Opt[int]           `json:"area"`
	Parking        Opt[bool]          `json:"parking"`
	Furnished      Opt[bool]          `json:"furnished"`
	IsFeatured     Opt[bool]          `json:"is_featured"`
	IsSpecialOffer Opt[bool]          `json:"is_special_offer"`
	OfferText      Opt[string]        `json:"offer_text"`
}

// Field pairs a column with the value the patch assigns to it.
type Field struct {
	Column string
	Value  any
}

// Fields lists the supplied fields in declaration order. A null on a
// nullable text column clears it; a null anywhere else is a validation
// failure.
func (p ListingPatch) Fields() ([]Field, error) {
	var (
		out []Field
		ve  ValidationError
	)
	required := func(col string, set, null bool, v any) {
		if !set {
			return
		}
		if null {
			ve.Add(col, "may not be null")
			return
		}
		out = append(out, Field{Column: col, Value: v})
	}
	nullable := func(col string, o Opt[string]) {
		if !o.Set {
			return
		}
		if o.Null {
			out = append(out, Field{Column: col, Value: ""})
			return
		}
		out = append(out, Field{Column: col, Value: o.Value})
	}

	required("title", p.Title.Set, p.Title.Null, p.Title.Value)
	required("description", p.Description.Set, p.Description.Null, p.Description.Value)
	required("price", p.Price.Set, p.Price.Null, p.Price.Value)
	required("property_type", p.Type.Set, p.Type.Null, p.Type.Value)
	required("status", p.Status.Set, p.Status.Null, p.Status.Value)
	nullable("address", p.Address)
	required("city", p.City.Set, p.City.Null, p.City.Value)
	required("state", p.State.Set, p.State.Null, p.State.Value)
	nullable("zip_code", p.ZipCode)
	required("bedrooms", p.Bedrooms.Set, p.Bedrooms.Null, p.Bedrooms.Value)
	required("bathrooms", p.Bathrooms.Set, p.Bathrooms.Null, p.Bathrooms.Value)
	required("area", p.Area.Set, p.Area.Null, p.Area.Value)
	required("parking", p.Parking.Set, p.Parking.Null, p.Parking.Value)
	required("furnished", p.Furnished.Set, p.Furnished.Null, p.Furnished.Value)
	required("is_featured", p.IsFeatured.Set, p.IsFeatured.Null, p.IsFeatured.Value)
	required("is_special_offer", p.IsSpecialOffer.Set, p.IsSpecialOffer.Null, p.IsSpecialOffer.Value)
	nullable("offer_text", p.OfferText)

	if err := ve.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyTo writes the supplied fields onto l and re-checks the entity
// constraints. l is left untouched when an error is returned.
func (p ListingPatch) ApplyTo(l *Listing) error {
	fields, err := p.Fields()
	if err != nil {
		return err
	}
	next := *l
	for _, f := range fields {
		switch f.Column {
		case "title":
			next.Title = f.Value.(string)
		case "description":
			next.Description = f.Value.(string)
		case "price":
			next.Price = f.Value.(float64)
		case "property_type":
			next.Type = f.Value.(PropertyType)
		case "status":
			next.Status = f.Value.(ListingStatus)
		case "address":
			next.Address = f.Value.(string)
		case "city":
			next.City = f.Value.(string)
		case "state":
			next.State = f.Value.(string)
		case "zip_code":
			next.ZipCode = f.Value.(string)
		case "bedrooms":
			next.Bedrooms = f.Value.(int)
		case "bathrooms":
			next.Bathrooms = f.Value.(int)
		case "area":
			next.Area = f.Value.(int)
		case "parking":
			next.Parking = f.Value.(bool)
		case "furnished":
			next.Furnished = f.Value.(bool)
		case "is_featured":
			next.IsFeatured = f.Value.(bool)
		case "is_special_offer":
			next.IsSpecialOffer = f.Value.(bool)
		case "offer_text":
			next.OfferText = f.Value.(string)
		}
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*l = next
	return nil
}
