package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// buildSchema creates the GraphQL schema over the lab's view.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat":  &graphql.Field{Type: graphql.Float},
			"lng":  &graphql.Field{Type: graphql.Float},
			"zoom": &graphql.Field{Type: graphql.Float},
		},
	})

	hintType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Hint",
		Fields: graphql.Fields{
			"key":  &graphql.Field{Type: graphql.String},
			"text": &graphql.Field{Type: graphql.String},
		},
	})

	challengeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Challenge",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.String},
			"type":     &graphql.Field{Type: graphql.String},
			"title":    &graphql.Field{Type: graphql.String},
			"prompt":   &graphql.Field{Type: graphql.String},
			"hints":    &graphql.Field{Type: graphql.NewList(hintType)},
			"fun_fact": &graphql.Field{Type: graphql.String},
			"answer": &graphql.Field{
				Type:        graphql.String,
				Description: "The answer, or ??? until revealed",
			},
		},
	})

	viewType := graphql.NewObject(graphql.ObjectConfig{
		Name: "View",
		Fields: graphql.Fields{
			"phase":           &graphql.Field{Type: graphql.String},
			"generation":      &graphql.Field{Type: graphql.Int},
			"busy":            &graphql.Field{Type: graphql.Boolean},
			"busy_text":       &graphql.Field{Type: graphql.String},
			"error":           &graphql.Field{Type: graphql.String},
			"challenge":       &graphql.Field{Type: challengeType},
			"world_fact":      &graphql.Field{Type: graphql.String},
			"inspiration":     &graphql.Field{Type: graphql.String},
			"revealed":        &graphql.Field{Type: graphql.Boolean},
			"reveal_label":    &graphql.Field{Type: graphql.String},
			"can_request_new": &graphql.Field{Type: graphql.Boolean},
			"request_label":   &graphql.Field{Type: graphql.String},
			"timestamp":       &graphql.Field{Type: graphql.String},
			"status":          &graphql.Field{Type: graphql.String},
			"location":        &graphql.Field{Type: geoPointType},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"view": &graphql.Field{
				Type:        viewType,
				Description: "The current state of the lab",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Shell.View(), nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"newChallenge": &graphql.Field{
				Type:        viewType,
				Description: "Request a new challenge; fails while one is loading",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := deps.Shell.RequestNewChallenge(p.Context); err != nil {
						return nil, err
					}
					return deps.Shell.View(), nil
				},
			},
			"toggleReveal": &graphql.Field{
				Type:        viewType,
				Description: "Reveal or hide the answer of the challenge on screen",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := deps.Shell.ToggleReveal(p.Context); err != nil {
						return nil, err
					}
					return deps.Shell.View(), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
