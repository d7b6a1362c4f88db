// Package database holds the registration store implementations.
// Every implementation keeps one record per chat id per flow.
package database

import (
	"errors"
	"fmt"
	"regbot/entity"
)

const (
	collectionRegistrations            = "registrations"
	collectionStudyCenterRegistrations = "study_center_registrations"
)

var ErrUnknownFlow = errors.New("unknown flow")

// tableFor maps a flow to its collection (mongo) or table (mysql) name.
func tableFor(flow entity.Flow) (string, error) {
	switch flow {
	case entity.FlowGeneral:
		return collectionRegistrations, nil
	case entity.FlowStudyCenter:
		return collectionStudyCenterRegistrations, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFlow, flow)
	}
}
