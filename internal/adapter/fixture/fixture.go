// Package fixture holds the versioned demo dataset a tenant is
// reinitialized from. The ids are fixed so repeated resets produce
// byte-identical data.
package fixture

import "github.com/google/uuid"

// Company is one seeded company record.
type Company struct {
	ID         uuid.UUID
	Name       string
	DomainName string
}

// Person is one seeded person record, linked to a seeded company.
type Person struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
	CompanyID uuid.UUID
}

// View is one seeded saved view.
type View struct {
	ID               uuid.UUID
	Name             string
	ObjectMetadataID uuid.UUID
}

// DemoSet is the complete demo dataset.
type DemoSet struct {
	Companies []Company
	People    []Person
	Views     []View
}

// CompanyIDs returns the ids of all seeded companies. Rules that reward
// records created beyond the fixture use it as their baseline; ids stay
// stable under renames, names do not.
func (d *DemoSet) CompanyIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(d.Companies))
	for i, c := range d.Companies {
		ids[i] = c.ID
	}
	return ids
}

var (
	companySLB       = uuid.MustParse("20202020-0713-4cb1-a816-6ef1807daa01")
	companyMicrosoft = uuid.MustParse("20202020-0713-4cb1-a816-6ef1807daa02")
	companyChegg     = uuid.MustParse("20202020-0713-4cb1-a816-6ef1807daa03")
	companyAirbnb    = uuid.MustParse("20202020-0713-4cb1-a816-6ef1807daa04")
	companyStripe    = uuid.MustParse("20202020-0713-4cb1-a816-6ef1807daa05")
	companyFigma     = uuid.MustParse("20202020-0713-4cb1-a816-6ef1807daa06")

	// object the seeded saved view points at
	peopleViewObject = uuid.MustParse("20202020-9e9f-4235-98b2-c76f3e2d281e")
)

// Demo returns the demo dataset. The set is append-only across releases:
// existing ids and values never change, because shipped rules compare live
// data against exactly this baseline.
func Demo() *DemoSet {
	return &DemoSet{
		Companies: []Company{
			// Seeded under the old name on purpose: one of the shipped rules
			// checks whether the user has renamed it to Schlumberger.
			{ID: companySLB, Name: "SLB", DomainName: "slb.com"},
			{ID: companyMicrosoft, Name: "Microsoft", DomainName: "microsoft.com"},
			{ID: companyChegg, Name: "Chegg Inc.", DomainName: "chegg.com"},
			{ID: companyAirbnb, Name: "Airbnb", DomainName: "airbnb.com"},
			{ID: companyStripe, Name: "Stripe", DomainName: "stripe.com"},
			{ID: companyFigma, Name: "Figma", DomainName: "figma.com"},
		},
		People: []Person{
			{
				ID:        uuid.MustParse("20202020-89d4-4bfa-b5f1-d13531e10101"),
				FirstName: "Satya",
				LastName:  "Nadella",
				Email:     "satya.nadella@microsoft.com",
				CompanyID: companyMicrosoft,
			},
			{
				ID:        uuid.MustParse("20202020-89d4-4bfa-b5f1-d13531e10102"),
				FirstName: "Brad",
				LastName:  "Smith",
				Email:     "brad.smith@microsoft.com",
				CompanyID: companyMicrosoft,
			},
			{
				ID:        uuid.MustParse("20202020-89d4-4bfa-b5f1-d13531e10103"),
				FirstName: "Dan",
				LastName:  "Rosensweig",
				Email:     "dan@chegg.com",
				CompanyID: companyChegg,
			},
			{
				ID:        uuid.MustParse("20202020-89d4-4bfa-b5f1-d13531e10104"),
				FirstName: "Olivier",
				LastName:  "Le Peuch",
				Email:     "olivier@slb.com",
				CompanyID: companySLB,
			},
			{
				ID:        uuid.MustParse("20202020-89d4-4bfa-b5f1-d13531e10105"),
				FirstName: "Patrick",
				LastName:  "Collison",
				Email:     "patrick@stripe.com",
				CompanyID: companyStripe,
			},
		},
		Views: []View{
			{
				ID:               uuid.MustParse("20202020-42bd-4a7c-9f4a-d13531e10201"),
				Name:             "All people",
				ObjectMetadataID: peopleViewObject,
			},
		},
	}
}
