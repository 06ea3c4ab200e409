package main

import (
	"net/http"
	"time"
	"tourbook/src/config"
	"tourbook/src/types"

	"github.com/gin-gonic/gin"
)

// criteriaFromQuery turns the list query into filter criteria. Omitted
// categories stay off; the price ceiling defaults to the maximum.
func criteriaFromQuery(q *types.PackageQueryFilters) types.FilterCriteria {
	criteria := types.DefaultCriteria()
	if q.Date != "" {
		if d, err := time.Parse(config.DATE_FORMAT, q.Date); err == nil {
			criteria.Date = &d
		}
	}
	if q.Price != nil {
		criteria.PriceCeiling = *q.Price
	}
	criteria.RatingFloor = q.Rating
	for _, t := range q.Time {
		criteria.TimeFilters = append(criteria.TimeFilters, types.TimeTag(t))
	}
	for _, s := range q.Specials {
		criteria.SpecialFilters = append(criteria.SpecialFilters, types.Special(s))
	}
	return criteria
}

func catalogHandlers(g *gin.RouterGroup, svc *services) *gin.RouterGroup {
	g.
		GET("/packages", func(ctx *gin.Context) {
			var query types.PackageQueryFilters
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			strategy := types.ParseSortStrategy(query.Sort)
			packages, err := svc.feed.Query(ctx.Request.Context(), criteriaFromQuery(&query), strategy, query.Refresh)
			if err != nil {
				RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data":  packages,
				"count": len(packages),
				"sort":  gin.H{"key": strategy, "label": strategy.Label()},
			})
		}).
		GET("/packages/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			pkg, err := svc.cms.GetPackage(ctx.Request.Context(), params.ID)
			if err != nil {
				RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": pkg})
		}).
		GET("/packages/:id/reviews", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			reviews, err := svc.cms.ListReviews(ctx.Request.Context(), params.ID)
			if err != nil {
				RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reviews, "count": len(reviews)})
		})
	return g
}
