package edifact

import (
	"strings"

	"github.com/pkg/errors"
)

// PartyRole is the NAD party function code qualifier.
type PartyRole string

const (
	RoleBuyer         PartyRole = "BY"
	RoleDeliveryParty PartyRole = "DP"
	RoleSupplier      PartyRole = "SU"
)

// PartyRoles lists the roles in the order their NAD segments are emitted.
var PartyRoles = []PartyRole{RoleBuyer, RoleDeliveryParty, RoleSupplier}

// ParseRole accepts BY, DP or SU in any case.
func ParseRole(s string) (PartyRole, error) {
	role := PartyRole(strings.ToUpper(strings.TrimSpace(s)))
	for _, r := range PartyRoles {
		if role == r {
			return r, nil
		}
	}
	return "", errors.Errorf("unknown party role %q (want BY, DP or SU)", s)
}

// Party is the static name and address block of a NAD segment. The GLN
// comes from the order document, everything else from configuration.
type Party struct {
	Name       string
	Street     string
	City       string
	PostalCode string
	Country    string
}

// Parties maps each role to its address block.
type Parties map[PartyRole]Party

// DefaultParties returns the trading-partner blocks of the original
// deployment. The values are reproduced byte for byte, including the
// backslash in the DP name and the trailing space in the SU name.
func DefaultParties() Parties {
	return Parties{
		RoleBuyer: {
			Name:       "BRICOSTORE ROMANIA S.A.",
			Street:     "Calea Giulesti, Nr. 1-3, Sector 6",
			City:       "BUCURESTI",
			PostalCode: "060251",
			Country:    "RO",
		},
		RoleDeliveryParty: {
			Name:       `DEPOZIT BANEASA \ 1616`,
			Street:     "Soseaua Bucuresti-Ploiesti, nr. 42-",
			City:       "BUCURESTI",
			PostalCode: "013696",
			Country:    "RO",
		},
		RoleSupplier: {
			Name:       "STANLEY BLACK & DECKER ROMANIA SRL ",
			Street:     "TURTURELELOR, PHOENICIA BUSSINESS C",
			City:       "BUCURESTI",
			PostalCode: "30881",
			Country:    "RO",
		},
	}
}

// Merge returns a copy of p with the roles present in overrides replaced.
func (p Parties) Merge(overrides Parties) Parties {
	out := make(Parties, len(p)+len(overrides))
	for role, party := range p {
		out[role] = party
	}
	for role, party := range overrides {
		out[role] = party
	}
	return out
}
