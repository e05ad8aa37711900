// Package registry reads provider registry dumps and adapts their
// heterogeneous column layouts into the canonical fields the pipeline
// needs. The same semantic value appears under several near-duplicate
// headers across registry exports; the alias table resolves that once,
// at the boundary, so nothing downstream branches on column names.
package registry

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/provider-outreach/internal/model"
)

// Mapping lists, per canonical field, the column headers that may carry
// it, in preference order.
type Mapping struct {
	OrgName         []string `yaml:"org_name"`
	City            []string `yaml:"city"`
	State           []string `yaml:"state"`
	FirstName       []string `yaml:"first_name"`
	LastName        []string `yaml:"last_name"`
	Phone           []string `yaml:"phone"`
	OrgMembers      []string `yaml:"org_members"`
	GroupAssignment []string `yaml:"group_assignment"`
	Telehealth      []string `yaml:"telehealth"`
}

// DefaultMapping covers the registry's official long headers and the
// shortened ones used by downstream exports.
func DefaultMapping() Mapping {
	return Mapping{
		OrgName: []string{
			"Provider Organization Name (Legal Business Name)",
			"Facility Name",
		},
		City: []string{
			"Provider Business Practice Location Address City Name",
			"City/Town",
			"city_clean",
		},
		State: []string{
			"Provider Business Practice Location Address State Name",
			"State",
			"state_clean",
		},
		FirstName: []string{
			"Authorized Official First Name",
			"Provider First Name",
		},
		LastName: []string{
			"Authorized Official Last Name",
			"Provider Last Name",
		},
		Phone: []string{
			"Telephone Number",
			"phone_clean",
		},
		OrgMembers:      []string{"num_org_mem"},
		GroupAssignment: []string{"grp_assgn"},
		Telehealth:      []string{"Telehlth"},
	}
}

// LoadMapping reads a mapping override from a YAML file. Fields left
// empty in the file keep their defaults.
func LoadMapping(path string) (Mapping, error) {
	m := DefaultMapping()

	raw, err := os.ReadFile(path)
	if err != nil {
		return m, eris.Wrapf(err, "registry: read mapping %s", path)
	}

	var override Mapping
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return m, eris.Wrapf(err, "registry: parse mapping %s", path)
	}

	merge := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	merge(&m.OrgName, override.OrgName)
	merge(&m.City, override.City)
	merge(&m.State, override.State)
	merge(&m.FirstName, override.FirstName)
	merge(&m.LastName, override.LastName)
	merge(&m.Phone, override.Phone)
	merge(&m.OrgMembers, override.OrgMembers)
	merge(&m.GroupAssignment, override.GroupAssignment)
	merge(&m.Telehealth, override.Telehealth)
	return m, nil
}

// File is a fully read registry dump: the raw rows for pass-through
// output plus the adapted providers, index-aligned with Rows.
type File struct {
	Header    []string
	Rows      [][]string
	Providers []model.Provider
}

// Read parses a registry CSV file. encodingName selects a character
// encoding by IANA name ("windows-1252", "latin1", ...); empty means
// the file is already UTF-8.
func Read(path string, mapping Mapping, encodingName string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "registry: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	var reader io.Reader = f
	if encodingName != "" {
		enc, err := htmlindex.Get(encodingName)
		if err != nil {
			return nil, eris.Wrapf(err, "registry: unknown encoding %s", encodingName)
		}
		reader = enc.NewDecoder().Reader(f)
	}

	cr := csv.NewReader(reader)
	cr.FieldsPerRecord = -1 // registry exports have ragged trailing columns

	header, err := cr.Read()
	if err != nil {
		return nil, eris.Wrapf(err, "registry: read header %s", path)
	}

	cols := resolveColumns(header, mapping)

	file := &File{Header: header}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "registry: read row %s", path)
		}
		file.Rows = append(file.Rows, row)
		file.Providers = append(file.Providers, cols.adapt(row))
	}

	zap.L().Info("registry file loaded",
		zap.String("path", path),
		zap.Int("records", len(file.Rows)),
	)
	return file, nil
}

// columns holds resolved column indexes; -1 means the field is absent
// from this file.
type columns struct {
	orgName         int
	city            int
	state           int
	firstName       int
	lastName        int
	phone           int
	orgMembers      int
	groupAssignment int
	telehealth      int
}

func resolveColumns(header []string, mapping Mapping) columns {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}

	find := func(aliases []string) int {
		for _, a := range aliases {
			if i, ok := index[a]; ok {
				return i
			}
		}
		return -1
	}

	return columns{
		orgName:         find(mapping.OrgName),
		city:            find(mapping.City),
		state:           find(mapping.State),
		firstName:       find(mapping.FirstName),
		lastName:        find(mapping.LastName),
		phone:           find(mapping.Phone),
		orgMembers:      find(mapping.OrgMembers),
		groupAssignment: find(mapping.GroupAssignment),
		telehealth:      find(mapping.Telehealth),
	}
}

func (c columns) adapt(row []string) model.Provider {
	get := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	members, _ := strconv.Atoi(get(c.orgMembers))

	return model.Provider{
		OrgName:         get(c.orgName),
		City:            get(c.city),
		State:           get(c.state),
		FirstName:       get(c.firstName),
		LastName:        get(c.lastName),
		Phone:           get(c.phone),
		OrgMembers:      members,
		GroupAssignment: get(c.groupAssignment),
		Telehealth:      get(c.telehealth),
	}
}
