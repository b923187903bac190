package rest

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"autocare/internal/domain"
)

const maxPhotoSize = 5 << 20 // 5 МБ

// @Summary Список механиков
// @Description Возвращает список механиков с их текущей загрузкой
// @Tags Механики
// @Produce json
// @Param page query int false "Номер страницы" default(1)
// @Param page_size query int false "Размер страницы" default(20)
// @Success 200 {object} paginatedResponse "Список механиков"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /workers [get]
func (h *Handler) getWorkers(c *gin.Context) {
	page, pageSize := parsePagination(c)

	workers, total, err := h.services.Worker.List(c.Request.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		h.logger.Error("ошибка получения списка механиков", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	paginatedSuccessResponse(c, workers, total, page, pageSize)
}

// @Summary Поиск механиков по имени
// @Description Ищет механиков по частичному совпадению имени
// @Tags Механики
// @Produce json
// @Param name query string true "Имя или его часть"
// @Success 200 {array} domain.Worker "Найденные механики"
// @Failure 400 {object} errorResponseBody "Пустой поисковый запрос"
// @Router /workers/search [get]
func (h *Handler) searchWorkers(c *gin.Context) {
	name := c.Query("name")

	workers, err := h.services.Worker.SearchByName(c.Request.Context(), name)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, workers)
}

// @Summary Профиль текущего механика
// @Description Возвращает профиль механика, привязанный к авторизованному пользователю
// @Tags Механики
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} domain.Worker "Профиль механика"
// @Failure 401 {object} errorResponseBody "Пользователь не авторизован"
// @Failure 404 {object} errorResponseBody "Профиль механика не найден"
// @Router /workers/me [get]
func (h *Handler) getMyWorkerProfile(c *gin.Context) {
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

	successResponse(c, http.StatusOK, worker)
}

// @Summary Получить механика по ID
// @Description Возвращает механика с загрузкой и списком назначенных заявок
// @Tags Механики
// @Produce json
// @Param id path int true "ID механика"
// @Success 200 {object} domain.Worker "Механик"
// @Failure 400 {object} errorResponseBody "Некорректный ID"
// @Failure 404 {object} errorResponseBody "Механик не найден"
// @Router /workers/{id} [get]
func (h *Handler) getWorkerByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID механика")
		return
	}

	worker, err := h.services.Worker.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, worker)
}

// @Summary Создать механика
// @Description Добавляет нового механика (только администратор)
// @Tags Механики
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body domain.CreateWorkerDTO true "Данные механика"
// @Success 201 {object} successResponseBody "ID созданного механика"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 409 {object} errorResponseBody "Механик с таким email уже существует"
// @Router /workers [post]
func (h *Handler) createWorker(c *gin.Context) {
	var input domain.CreateWorkerDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Worker.Create(c.Request.Context(), input)
	if err != nil {
		h.logger.Warn("ошибка создания механика", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Обновить механика
// @Description Обновляет данные механика (только администратор)
// @Tags Механики
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID механика"
// @Param input body domain.UpdateWorkerDTO true "Данные для обновления"
// @Success 200 {object} messageResponseType "Сообщение об успешном обновлении"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 404 {object} errorResponseBody "Механик не найден"
// @Router /workers/{id} [put]
func (h *Handler) updateWorker(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID механика")
		return
	}

	var input domain.UpdateWorkerDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Worker.Update(c.Request.Context(), id, input); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "данные механика обновлены")
}

// @Summary Удалить механика
// @Description Удаляет механика, снимая его со всех активных заявок (только администратор)
// @Tags Механики
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID механика"
// @Success 200 {object} messageResponseType "Сообщение об успешном удалении"
// @Failure 400 {object} errorResponseBody "Некорректный ID"
// @Failure 404 {object} errorResponseBody "Механик не найден"
// @Router /workers/{id} [delete]
func (h *Handler) deleteWorker(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID механика")
		return
	}

	if err := h.services.Worker.Delete(c.Request.Context(), id); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "механик удален")
}

// @Summary Загрузить фото механика
// @Description Загружает фотографию механика в хранилище (только администратор)
// @Tags Механики
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "ID механика"
// @Param photo formData file true "Файл фотографии"
// @Success 200 {object} successResponseBody "URL загруженного фото"
// @Failure 400 {object} errorResponseBody "Некорректный файл"
// @Failure 404 {object} errorResponseBody "Механик не найден"
// @Router /workers/{id}/photo [post]
func (h *Handler) uploadWorkerPhoto(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID механика")
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		badRequestResponse(c, "файл фотографии не передан")
		return
	}

	if fileHeader.Size > maxPhotoSize {
		badRequestResponse(c, "файл слишком большой, максимум 5 МБ")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("ошибка открытия файла", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "ошибка чтения файла")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("ошибка чтения файла", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "ошибка чтения файла")
		return
	}

	url, err := h.services.Worker.UploadPhoto(c.Request.Context(), id, data, fileHeader.Filename)
	if err != nil {
		h.logger.Warn("ошибка загрузки фото", zap.Int64("workerId", id), zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, map[string]interface{}{
		"photo_url": url,
	})
}

// @Summary Удалить фото механика
// @Description Удаляет фотографию механика из хранилища (только администратор)
// @Tags Механики
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID механика"
// @Success 200 {object} messageResponseType "Сообщение об успешном удалении"
// @Failure 400 {object} errorResponseBody "Некорректный ID"
// @Failure 404 {object} errorResponseBody "Механик не найден"
// @Router /workers/{id}/photo [delete]
func (h *Handler) deleteWorkerPhoto(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID механика")
		return
	}

	if err := h.services.Worker.DeletePhoto(c.Request.Context(), id); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "фотография удалена")
}
