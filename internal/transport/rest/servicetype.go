package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"autocare/internal/domain"
)

// @Summary Каталог услуг
// @Description Возвращает список видов услуг с пагинацией
// @Tags Услуги
// @Produce json
// @Param page query int false "Номер страницы" default(1)
// @Param page_size query int false "Размер страницы" default(20)
// @Success 200 {object} paginatedResponse "Список услуг"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /service-types [get]
func (h *Handler) getServiceTypes(c *gin.Context) {
	page, pageSize := parsePagination(c)

	serviceTypes, total, err := h.services.ServiceType.List(c.Request.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		h.logger.Error("ошибка получения каталога услуг", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	paginatedSuccessResponse(c, serviceTypes, total, page, pageSize)
}

// @Summary Получить услугу по ID
// @Description Возвращает вид услуги по идентификатору
// @Tags Услуги
// @Produce json
// @Param id path int true "ID услуги"
// @Success 200 {object} domain.ServiceType "Вид услуги"
// @Failure 400 {object} errorResponseBody "Некорректный ID"
// @Failure 404 {object} errorResponseBody "Услуга не найдена"
// @Router /service-types/{id} [get]
func (h *Handler) getServiceTypeByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID услуги")
		return
	}

	serviceType, err := h.services.ServiceType.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, serviceType)
}

// @Summary Создать услугу
// @Description Добавляет вид услуги в каталог (только администратор)
// @Tags Услуги
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body domain.CreateServiceTypeDTO true "Данные услуги"
// @Success 201 {object} successResponseBody "ID созданной услуги"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 409 {object} errorResponseBody "Услуга с таким названием уже существует"
// @Router /service-types [post]
func (h *Handler) createServiceType(c *gin.Context) {
	var input domain.CreateServiceTypeDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.ServiceType.Create(c.Request.Context(), input)
	if err != nil {
		h.logger.Warn("ошибка создания услуги", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Обновить услугу
// @Description Обновляет вид услуги (только администратор)
// @Tags Услуги
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID услуги"
// @Param input body domain.UpdateServiceTypeDTO true "Данные для обновления"
// @Success 200 {object} messageResponseType "Сообщение об успешном обновлении"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 404 {object} errorResponseBody "Услуга не найдена"
// @Router /service-types/{id} [put]
func (h *Handler) updateServiceType(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID услуги")
		return
	}

	var input domain.UpdateServiceTypeDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.ServiceType.Update(c.Request.Context(), id, input); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "услуга обновлена")
}

// @Summary Удалить услугу
// @Description Удаляет вид услуги, если на него не ссылаются заявки (только администратор)
// @Tags Услуги
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID услуги"
// @Success 200 {object} messageResponseType "Сообщение об успешном удалении"
// @Failure 400 {object} errorResponseBody "Некорректный ID"
// @Failure 404 {object} errorResponseBody "Услуга не найдена"
// @Failure 409 {object} errorResponseBody "На услугу ссылаются существующие заявки"
// @Router /service-types/{id} [delete]
func (h *Handler) deleteServiceType(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID услуги")
		return
	}

	if err := h.services.ServiceType.Delete(c.Request.Context(), id); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "услуга удалена")
}
