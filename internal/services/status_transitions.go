package services

import "windpermit/internal/models"

// Допустимые переходы статусов наряда-допуска.
// Closed, Cancelled и Rejected — терминальные, из них выхода нет.
// Accepted не терминальный: открытый наряд ещё закрывают или отменяют.
var PermitTransitions = map[string]map[string]bool{
	models.StatusPending:   {models.StatusAccepted: true, models.StatusRejected: true},
	models.StatusAccepted:  {models.StatusClosed: true, models.StatusCancelled: true},
	models.StatusClosed:    {},
	models.StatusCancelled: {},
	models.StatusRejected:  {},
}

func canTransition(current, to string) bool {
	nexts, ok := PermitTransitions[current]
	if !ok {
		return false
	}
	return nexts[to]
}
