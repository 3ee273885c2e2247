// Package graph exposes a read-only GraphQL view of the catalogue at
// POST /api/graphql. Mutations stay REST-only so the admin gate has a
// single surface to guard.
package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/charvi/app/store"
	gql "github.com/shashiranjanraj/charvi/pkg/graphql"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"name":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.String},
		"category":    &graphql.Field{Type: graphql.String},
		"image":       &graphql.Field{Type: graphql.String},
		"stock":       &graphql.Field{Type: graphql.Int},
		"rating":      &graphql.Field{Type: graphql.String},
		"featured":    &graphql.Field{Type: graphql.Boolean},
		"createdAt":   &graphql.Field{Type: graphql.DateTime},
	},
})

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"name":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"createdAt":   &graphql.Field{Type: graphql.DateTime},
	},
})

var productPageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProductPage",
	Fields: graphql.Fields{
		"products": &graphql.Field{Type: graphql.NewList(productType)},
		"total":    &graphql.Field{Type: graphql.Int},
	},
})

// NewSchema builds the catalogue query schema over the given store.
func NewSchema(s store.Store) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: productPageType,
				Args: graphql.FieldConfigArgument{
					"page":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: store.DefaultPage},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: store.DefaultLimit},
					"category": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					page, _ := p.Args["page"].(int)
					limit, _ := p.Args["limit"].(int)
					category, _ := p.Args["category"].(string)
					return s.ListProducts(p.Context, page, limit, category)
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					product, err := s.GetProduct(p.Context, id)
					if err != nil || product == nil {
						return nil, err
					}
					return product, nil
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return s.ListCategories(p.Context)
				},
			},
		},
	})
	return gql.NewSchema(query)
}
