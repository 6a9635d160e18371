package generator

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/launchfolio/launchfolio/internal/launchpad"
)

// namer generates plausible demo names and asset metadata.
type namer struct {
	rng *rand.Rand
}

var personNames = []string{
	"Amara Okafor", "Bruno Castellano", "Chen Wei", "Daniela Reyes",
	"Emeka Adeyemi", "Freja Lindqvist", "Gabriel Moreau", "Hana Kobayashi",
	"Idris Haddad", "Jasmine Patel", "Klara Novak", "Lucas Ferreira",
	"Mei-Ling Zhang", "Noor Rahman", "Oscar Väisänen", "Priya Sharma",
	"Quentin Dubois", "Rosa Delgado", "Sander Bakker", "Tomasz Kowalski",
}

var realEstateNames = []string{
	"Harborview Lofts", "Cedar Ridge Townhomes", "Dockside Warehouse 7",
	"Maple Street Duplex", "The Atlas Building", "Sunset Plaza Retail",
}

var collectibleNames = []string{
	"1952 Mickey Mantle Rookie Card", "First Edition Hobbit",
	"Omega Speedmaster 145.022", "Amati Violin c. 1680",
}

var vehicleNames = []string{
	"1968 Alfa Romeo Spider", "1973 Porsche 911 Carrera RS",
	"1961 Jaguar E-Type Roadster", "1987 Land Rover Defender 110",
}

var equipmentNames = []string{
	"CNC Machining Cell", "Commercial Solar Array 240kW",
	"John Deere 9RX Fleet", "Cold Storage Facility Line",
}

var artNames = []string{
	"Untitled (Ochre Series)", "Bronze Figure Study No. 4",
	"Lithograph Portfolio 1968", "Midcentury Tapestry Pair",
}

var locations = []string{
	"Lisbon, Portugal", "Austin, TX", "Rotterdam, Netherlands",
	"Kyoto, Japan", "Medellín, Colombia", "Tallinn, Estonia",
	"Cape Town, South Africa", "Porto Alegre, Brazil",
}

var ticketSubjects = []string{
	"Cannot download my ownership certificate",
	"Distribution amount looks wrong",
	"How do I change my payout account?",
	"KYC verification stuck for a week",
	"Refund not showing in my history",
	"Question about lockup end date",
}

// assetNamesByType maps each asset type to its name pool.
var assetNamesByType = map[launchpad.AssetType][]string{
	launchpad.AssetTypeRealEstate:  realEstateNames,
	launchpad.AssetTypeCollectible: collectibleNames,
	launchpad.AssetTypeVehicle:     vehicleNames,
	launchpad.AssetTypeEquipment:   equipmentNames,
	launchpad.AssetTypeArt:         artNames,
}

var assetTypes = []launchpad.AssetType{
	launchpad.AssetTypeRealEstate,
	launchpad.AssetTypeCollectible,
	launchpad.AssetTypeVehicle,
	launchpad.AssetTypeEquipment,
	launchpad.AssetTypeArt,
}

func (n *namer) personName(index int) string {
	return personNames[index%len(personNames)]
}

// email derives a deterministic address from a display name so reruns
// against a fresh store produce the same accounts.
func (n *namer) email(name string, index int) string {
	slug := strings.ToLower(strings.ReplaceAll(name, " ", "."))
	return fmt.Sprintf("%s.%d@launchfolio.test", slug, index)
}

func (n *namer) assetType(index int) launchpad.AssetType {
	return assetTypes[index%len(assetTypes)]
}

func (n *namer) assetName(assetType launchpad.AssetType) string {
	pool := assetNamesByType[assetType]
	return pool[n.rng.Intn(len(pool))]
}

func (n *namer) location() string {
	return locations[n.rng.Intn(len(locations))]
}

func (n *namer) ticketSubject() string {
	return ticketSubjects[n.rng.Intn(len(ticketSubjects))]
}
