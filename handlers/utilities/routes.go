package utilities

import "github.com/gin-gonic/gin"

func RegisterUtilitiesRoutes(r *gin.RouterGroup) {
	r.POST("/utilities/airtime", PayAirtime)
	r.POST("/utilities/data", PayData)
	r.POST("/utilities/electricity", PayElectricity)
	r.POST("/utilities/school-fees", PaySchoolFees)
}
