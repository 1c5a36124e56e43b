package signal

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"liqflow/internal/model"
	"liqflow/internal/service"
	"liqflow/pkg/errors"
	"liqflow/pkg/errors/ecode"
	"liqflow/pkg/response"
)

type SignalHandler struct {
	scanner *service.ScannerService
}

func NewSignalHandler(scanner *service.ScannerService) *SignalHandler {
	return &SignalHandler{
		scanner: scanner,
	}
}

// Scan 触发一次流动性扫描
// 请求体可以内联highs/lows数组（研究回放），否则走配置的行情数据源
func (sh *SignalHandler) Scan() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.ScanReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, err.Error()), nil)
			return
		}
		res, err := sh.scanner.Scan(ctx, req)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, res)
	}
}

func (sh *SignalHandler) SignalGetList() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.ActiveSignalsReq
		if err := ctx.ShouldBindQuery(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, err.Error()), nil)
			return
		}
		list, err := sh.scanner.SignalGetList(ctx, req)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, list)
	}
}

func (sh *SignalHandler) GetSignalDetailByID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.SignalDetailReq
		if err := ctx.ShouldBindQuery(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, err.Error()), nil)
			return
		}
		id := cast.ToUint64(req.SignalID)
		if id == 0 {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, "invalid signal_id: %s", req.SignalID), nil)
			return
		}
		res, err := sh.scanner.SignalGetDetail(ctx, id)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, res)
	}
}
