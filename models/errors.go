package models

// Error taxonomy for service results. Handlers map these to HTTP statuses
// through helper.HTTPHelper.GetStatusCode.

type ErrorBadRequest struct {
	Message string
}

func (e ErrorBadRequest) Error() string { return e.Message }

type ErrorUnauthorized struct {
	Message string
}

func (e ErrorUnauthorized) Error() string { return e.Message }

type ErrorForbidden struct {
	Message string
}

func (e ErrorForbidden) Error() string { return e.Message }

type ErrorNotFound struct {
	Message string
}

func (e ErrorNotFound) Error() string { return e.Message }

type ErrorConflict struct {
	Message string
}

func (e ErrorConflict) Error() string { return e.Message }

type ErrorInternalServer struct {
	Message string
}

func (e ErrorInternalServer) Error() string { return e.Message }
