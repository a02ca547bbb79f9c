package fakeapi

import (
	"net/http"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
)

// Describe returns an OpenAPI document of the routes this server answers.
func (s *Server) Describe() *openapi3.T {
	widget := widgetSchema()
	apiErr := errorSchema()

	token := &openapi3.ParameterRef{Value: openapi3.NewQueryParameter("access_token").
		WithRequired(true).
		WithSchema(openapi3.NewStringSchema())}
	space := &openapi3.ParameterRef{Value: openapi3.NewPathParameter("space").
		WithSchema(openapi3.NewStringSchema())}
	id := &openapi3.ParameterRef{Value: openapi3.NewPathParameter("id").
		WithSchema(openapi3.NewStringSchema())}
	version := &openapi3.ParameterRef{Value: openapi3.NewHeaderParameter(versionHeader).
		WithSchema(openapi3.NewIntegerSchema())}

	body := &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
		WithContent(openapi3.NewContentWithSchema(openapi3.NewObjectSchema(), []string{MediaType}))}

	list := openapi3.NewObjectSchema().
		WithProperty("sys", openapi3.NewObjectSchema().WithProperty("type", openapi3.NewStringSchema())).
		WithProperty("total", openapi3.NewIntegerSchema()).
		WithProperty("items", openapi3.NewArraySchema().WithItems(widget))

	collectionItem := &openapi3.PathItem{
		Parameters: openapi3.Parameters{token, space},
		Post: &openapi3.Operation{
			OperationID: "createWidget",
			RequestBody: body,
			Responses: responses(
				jsonResponse(http.StatusCreated, widget),
				jsonResponse(http.StatusBadRequest, apiErr),
				jsonResponse(http.StatusRequestEntityTooLarge, apiErr),
				jsonResponse(http.StatusUnprocessableEntity, apiErr),
			),
		},
		Get: &openapi3.Operation{
			OperationID: "listWidgets",
			Responses: responses(
				jsonResponse(http.StatusOK, list),
				jsonResponse(http.StatusInternalServerError, apiErr),
			),
		},
	}

	item := &openapi3.PathItem{
		Parameters: openapi3.Parameters{token, space, id},
		Put: &openapi3.Operation{
			OperationID: "upsertWidget",
			Parameters:  openapi3.Parameters{version},
			RequestBody: body,
			Responses: responses(
				jsonResponse(http.StatusOK, widget),
				jsonResponse(http.StatusCreated, widget),
				jsonResponse(http.StatusBadRequest, apiErr),
				jsonResponse(http.StatusRequestEntityTooLarge, apiErr),
				emptyResponse(http.StatusConflict),
				jsonResponse(http.StatusUnprocessableEntity, apiErr),
				jsonResponse(http.StatusInternalServerError, apiErr),
			),
		},
		Get: &openapi3.Operation{
			OperationID: "getWidget",
			Responses: responses(
				jsonResponse(http.StatusOK, widget),
				jsonResponse(http.StatusNotFound, apiErr),
				jsonResponse(http.StatusInternalServerError, apiErr),
			),
		},
		Delete: &openapi3.Operation{
			OperationID: "deleteWidget",
			Parameters:  openapi3.Parameters{version},
			Responses: responses(
				emptyResponse(http.StatusNoContent),
				emptyResponse(http.StatusConflict),
				jsonResponse(http.StatusInternalServerError, apiErr),
			),
		},
	}

	return &openapi3.T{
		OpenAPI: "3.0.0",
		Info:    &openapi3.Info{Title: "widgetmock", Version: "0.0.1"},
		Paths: openapi3.Paths{
			"/spaces/{space}/widgets":      collectionItem,
			"/spaces/{space}/widgets/{id}": item,
		},
	}
}

type statusResponse struct {
	code int
	ref  *openapi3.ResponseRef
}

func responses(rs ...statusResponse) openapi3.Responses {
	out := make(openapi3.Responses, len(rs))
	for _, r := range rs {
		out[strconv.Itoa(r.code)] = r.ref
	}
	return out
}

func jsonResponse(code int, schema *openapi3.Schema) statusResponse {
	rs := openapi3.NewResponse().
		WithDescription(http.StatusText(code)).
		WithJSONSchema(schema)
	return statusResponse{code: code, ref: &openapi3.ResponseRef{Value: rs}}
}

func emptyResponse(code int) statusResponse {
	rs := openapi3.NewResponse().WithDescription(http.StatusText(code))
	return statusResponse{code: code, ref: &openapi3.ResponseRef{Value: rs}}
}

func linkSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("sys", openapi3.NewObjectSchema().WithProperty("id", openapi3.NewStringSchema()))
}

func widgetSchema() *openapi3.Schema {
	sys := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema()).
		WithProperty("version", openapi3.NewIntegerSchema()).
		WithProperty("space", linkSchema())
	return openapi3.NewObjectSchema().WithProperty("sys", sys)
}

func errorSchema() *openapi3.Schema {
	detail := openapi3.NewObjectSchema().
		WithProperty("path", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithProperty("expected", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithProperty("max", openapi3.NewIntegerSchema())
	return openapi3.NewObjectSchema().
		WithProperty("sys", openapi3.NewObjectSchema().WithProperty("id", openapi3.NewStringSchema())).
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("details", openapi3.NewObjectSchema().
			WithProperty("errors", openapi3.NewArraySchema().WithItems(detail)))
}
