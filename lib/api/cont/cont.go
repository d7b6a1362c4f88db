package cont

import (
	"context"
	"regbot/entity"
)

type ctxKey string

const FlowKey ctxKey = "flow"

func PutFlow(c context.Context, flow entity.Flow) context.Context {
	return context.WithValue(c, FlowKey, flow)
}

// GetFlow returns the flow resolved from the request path, or an empty Flow.
func GetFlow(c context.Context) entity.Flow {
	flow, ok := c.Value(FlowKey).(entity.Flow)
	if !ok {
		return ""
	}
	return flow
}
