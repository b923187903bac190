package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"autocare/internal/domain"
)

// @Summary Создать заявку
// @Description Создает заявку на обслуживание автомобиля от имени текущего пользователя
// @Tags Заявки
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body domain.CreateAppointmentDTO true "Данные заявки"
// @Success 201 {object} successResponseBody "ID созданной заявки"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 409 {object} errorResponseBody "Автомобиль уже записан на этот слот"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /appointments [post]
func (h *Handler) createAppointment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.CreateAppointmentDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Appointment.Create(c.Request.Context(), userID, input)
	if err != nil {
		h.logger.Warn("ошибка создания заявки", zap.Int64("clientId", userID), zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Мои заявки
// @Description Возвращает заявки текущего пользователя. Для механика это назначенные ему заявки
// @Tags Заявки
// @Security ApiKeyAuth
// @Produce json
// @Param status query string false "Фильтр по статусу"
// @Param page query int false "Номер страницы" default(1)
// @Param page_size query int false "Размер страницы" default(20)
// @Success 200 {object} paginatedResponse "Список заявок"
// @Failure 401 {object} errorResponseBody "Пользователь не авторизован"
// @Router /appointments/mine [get]
func (h *Handler) getMyAppointments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	userRole, _ := getUserRole(c)

	page, pageSize := parsePagination(c)
	filter := domain.AppointmentFilter{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}

	if userRole == domain.UserRoleWorker {
		worker, err := h.services.Worker.GetByUserID(c.Request.Context(), userID)
		if err != nil {
			serviceErrorResponse(c, err)
			return
		}
		filter.WorkerID = &worker.ID
	} else {
		filter.ClientID = &userID
	}

	if statusParam := c.Query("status"); statusParam != "" {
		status := domain.AppointmentStatus(statusParam)
		if !status.Valid() {
			badRequestResponse(c, "некорректный статус заявки")
			return
		}
		filter.Status = &status
	}

	appointments, total, err := h.services.Appointment.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("ошибка получения заявок", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	paginatedSuccessResponse(c, appointments, total, page, pageSize)
}

// @Summary Список заявок
// @Description Возвращает все заявки с фильтрами (только администратор)
// @Tags Заявки
// @Security ApiKeyAuth
// @Produce json
// @Param status query string false "Фильтр по статусу"
// @Param worker_id query int false "Фильтр по механику"
// @Param client_id query int false "Фильтр по клиенту"
// @Param start_date query string false "Начало периода (YYYY-MM-DD)"
// @Param end_date query string false "Конец периода (YYYY-MM-DD)"
// @Param page query int false "Номер страницы" default(1)
// @Param page_size query int false "Размер страницы" default(20)
// @Success 200 {object} paginatedResponse "Список заявок"
// @Failure 400 {object} errorResponseBody "Некорректные параметры фильтра"
// @Router /appointments [get]
func (h *Handler) getAppointments(c *gin.Context) {
	page, pageSize := parsePagination(c)
	filter := domain.AppointmentFilter{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}

	if statusParam := c.Query("status"); statusParam != "" {
		status := domain.AppointmentStatus(statusParam)
		if !status.Valid() {
			badRequestResponse(c, "некорректный статус заявки")
			return
		}
		filter.Status = &status
	}

	if workerParam := c.Query("worker_id"); workerParam != "" {
		workerID, err := strconv.ParseInt(workerParam, 10, 64)
		if err != nil {
			badRequestResponse(c, "некорректный ID механика")
			return
		}
		filter.WorkerID = &workerID
	}

	if clientParam := c.Query("client_id"); clientParam != "" {
		clientID, err := strconv.ParseInt(clientParam, 10, 64)
		if err != nil {
			badRequestResponse(c, "некорректный ID клиента")
			return
		}
		filter.ClientID = &clientID
	}

	if startParam := c.Query("start_date"); startParam != "" {
		startDate, err := time.Parse("2006-01-02", startParam)
		if err != nil {
			badRequestResponse(c, "некорректная дата начала периода")
			return
		}
		filter.StartDate = &startDate
	}

	if endParam := c.Query("end_date"); endParam != "" {
		endDate, err := time.Parse("2006-01-02", endParam)
		if err != nil {
			badRequestResponse(c, "некорректная дата конца периода")
			return
		}
		filter.EndDate = &endDate
	}

	appointments, total, err := h.services.Appointment.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("ошибка получения заявок", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	paginatedSuccessResponse(c, appointments, total, page, pageSize)
}

// @Summary Получить заявку по ID
// @Description Возвращает заявку. Доступна клиенту-владельцу, назначенному механику и администратору
// @Tags Заявки
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID заявки"
// @Success 200 {object} domain.Appointment "Заявка"
// @Failure 400 {object} errorResponseBody "Некорректный ID"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Заявка не найдена"
// @Router /appointments/{id} [get]
func (h *Handler) getAppointmentByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID заявки")
		return
	}

	appointment, err := h.services.Appointment.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	if !h.canAccessAppointment(c, appointment) {
		forbiddenResponse(c)
		return
	}

	successResponse(c, http.StatusOK, appointment)
}

// @Summary Обновить заявку
// @Description Обновляет заявку с проверкой переходов статуса и конфликтов по слоту
// @Tags Заявки
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID заявки"
// @Param input body domain.UpdateAppointmentDTO true "Данные для обновления"
// @Success 200 {object} domain.Appointment "Обновленная заявка"
// @Failure 400 {object} errorResponseBody "Ошибка валидации или недопустимый переход статуса"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Заявка не найдена"
// @Failure 409 {object} errorResponseBody "Конфликт по слоту"
// @Router /appointments/{id} [put]
func (h *Handler) updateAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID заявки")
		return
	}

	appointment, err := h.services.Appointment.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	if !h.canAccessAppointment(c, appointment) {
		forbiddenResponse(c)
		return
	}

	var input domain.UpdateAppointmentDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Appointment.Update(c.Request.Context(), id, input); err != nil {
		h.logger.Warn("ошибка обновления заявки", zap.Int64("appointmentId", id), zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	updated, err := h.services.Appointment.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, updated)
}

// @Summary Удалить заявку
// @Description Удаляет заявку. Доступно клиенту-владельцу и администратору
// @Tags Заявки
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID заявки"
// @Success 200 {object} messageResponseType "Сообщение об успешном удалении"
// @Failure 400 {object} errorResponseBody "Некорректный ID"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Заявка не найдена"
// @Router /appointments/{id} [delete]
func (h *Handler) deleteAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID заявки")
		return
	}

	appointment, err := h.services.Appointment.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	userID, _ := getUserID(c)
	userRole, _ := getUserRole(c)
	if appointment.ClientID != userID && userRole != domain.UserRoleAdmin {
		forbiddenResponse(c)
		return
	}

	if err := h.services.Appointment.Delete(c.Request.Context(), id); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "заявка удалена")
}

// @Summary Назначить механика
// @Description Назначает механика на заявку с проверкой занятости слота (только администратор)
// @Tags Заявки
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID заявки"
// @Param input body domain.AssignWorkerDTO true "ID механика"
// @Success 200 {object} domain.Appointment "Заявка с назначенным механиком"
// @Failure 400 {object} errorResponseBody "Заявка в терминальном статусе"
// @Failure 404 {object} errorResponseBody "Заявка или механик не найдены"
// @Failure 409 {object} errorResponseBody "Механик занят в этом слоте"
// @Router /appointments/{id}/assign-worker [put]
func (h *Handler) assignWorker(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID заявки")
		return
	}

	var input domain.AssignWorkerDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	appointment, err := h.services.Appointment.AssignWorker(c.Request.Context(), id, input.WorkerID)
	if err != nil {
		h.logger.Warn("ошибка назначения механика",
			zap.Int64("appointmentId", id),
			zap.Int64("workerId", input.WorkerID),
			zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, appointment)
}

// @Summary Снять механика
// @Description Снимает назначенного механика с заявки (только администратор)
// @Tags Заявки
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID заявки"
// @Success 200 {object} domain.Appointment "Заявка без механика"
// @Failure 400 {object} errorResponseBody "Механик не назначен"
// @Failure 404 {object} errorResponseBody "Заявка не найдена"
// @Router /appointments/{id}/unassign-worker [put]
func (h *Handler) unassignWorker(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID заявки")
		return
	}

	appointment, err := h.services.Appointment.UnassignWorker(c.Request.Context(), id)
	if err != nil {
		h.logger.Warn("ошибка снятия механика", zap.Int64("appointmentId", id), zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, appointment)
}

// @Summary Принять заявку в работу
// @Description Механик подтверждает назначенную ему заявку, переводя ее в работу
// @Tags Заявки
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID заявки"
// @Success 200 {object} domain.Appointment "Заявка в работе"
// @Failure 400 {object} errorResponseBody "Заявка не в статусе confirmed"
// @Failure 403 {object} errorResponseBody "Заявка назначена другому механику"
// @Failure 404 {object} errorResponseBody "Заявка не найдена"
// @Router /appointments/{id}/accept-service [put]
func (h *Handler) acceptAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID заявки")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	worker, err := h.services.Worker.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	appointment, err := h.services.Appointment.Accept(c.Request.Context(), id, worker.ID)
	if err != nil {
		h.logger.Warn("ошибка принятия заявки",
			zap.Int64("appointmentId", id),
			zap.Int64("workerId", worker.ID),
			zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, appointment)
}

// canAccessAppointment проверяет, что заявка видна текущему пользователю:
// клиенту-владельцу, назначенному на нее механику или администратору.
func (h *Handler) canAccessAppointment(c *gin.Context, appointment *domain.Appointment) bool {
	userID, err := getUserID(c)
	if err != nil {
		return false
	}

	userRole, _ := getUserRole(c)
	if userRole == domain.UserRoleAdmin {
		return true
	}

	if appointment.ClientID == userID {
		return true
	}

	if userRole == domain.UserRoleWorker && appointment.WorkerID != nil {
		worker, err := h.services.Worker.GetByUserID(c.Request.Context(), userID)
		if err == nil && worker.ID == *appointment.WorkerID {
			return true
		}
	}

	return false
}
